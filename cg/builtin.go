package cg

// Helpers appended to every generated program. They mirror the coercions the
// store machine applies: field lookup by case folded column name, AsBool and
// AsInt.
const builtinAWK = `
function field(name,    k) {
  k = toupper(name);
  if (k in col) {
    return $(col[k]);
  }
  return "";
}

function as_bool(x,    s) {
  s = x "";
  sub(/^[ \t\r\n]+/, "", s);
  if (s ~ /^-?[0-9]+$/) {
    return (s + 0) != 0;
  }
  return substr(s, 1, 1) ~ /[TtYy1]/;
}

function as_int(x,    s) {
  s = x "";
  gsub(/^[ \t\r\n]+|[ \t\r\n]+$/, "", s);
  if (s ~ /^[+-]?[0-9]+$/) {
    return s + 0;
  }
  return 0;
}

function eq_fold(a, b) {
  return toupper(a "") == toupper(b "");
}
`
