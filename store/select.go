package store

// Select scans src in order and returns a new RecordSet holding copies of
// the records the where clause accepts, restricted to fields when fields is
// not empty. The where clause is compiled once up front, so compile errors
// come back before any record is evaluated. An empty where keeps every
// record.
//
// The result shares src's schema but none of its records, and starts
// without materialized indices.
func Select(
	src *RecordSet,
	fields []string,
	where ClauseList,
	opts ...SelectOption,
) (*RecordSet, error) {
	o := selectOptions{alias: DefaultAlias}
	for _, fn := range opts {
		fn(&o)
	}

	var (
		prog *Program
		m    *Machine
	)
	if len(where) > 0 {
		p, err := CompileAs(o.alias, where)
		if err != nil {
			return nil, err
		}
		prog = p
		m = &Machine{Default: src.schema, Trace: o.trace}
	}

	out := src.derive(o.opts...)
	for _, rec := range src.records {
		if prog != nil {
			v, err := m.Run(prog, Bind(o.alias, rec))
			if err != nil {
				return nil, err
			}
			if !v.AsBool() {
				continue
			}
		}
		cp, err := project(rec, fields)
		if err != nil {
			return nil, err
		}
		out.adopt(cp)
	}
	return out, nil
}

// project copies rec, or only the listed fields of it. Listed fields that
// are unset are left unset in the copy.
func project(rec *Record, fields []string) (*Record, error) {
	if len(fields) == 0 {
		return rec.Clone(), nil
	}
	out := NewRecord(rec.schema)
	for _, f := range fields {
		fd, ok := rec.schema.Field(f)
		if !ok {
			return nil, newSchemaError(rec.schema, f, ErrUnknownField)
		}
		if rec.modified(fd) {
			out.store(fd.Slot, rec.slots[fd.Slot].value)
		}
	}
	return out, nil
}

func (self *RecordSet) Select(
	fields []string,
	where ClauseList,
	opts ...SelectOption,
) (*RecordSet, error) {
	return Select(self, fields, where, opts...)
}
