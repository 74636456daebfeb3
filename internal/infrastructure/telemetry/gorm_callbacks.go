package telemetry

import "gorm.io/gorm"

// registerAround installs before and after around each GORM processor.
// Callback names are prefix:before_<processor> and prefix:after_<processor>.
// after receives the operation implied by the processor, or "" for raw and
// row statements whose operation must be read from the SQL.
func registerAround(db *gorm.DB, prefix string, before func(*gorm.DB), after func(tx *gorm.DB, operation string)) error {
	cb := db.Callback()
	type hook struct {
		name      string
		operation string
		before    func(string, func(*gorm.DB)) error
		after     func(string, func(*gorm.DB)) error
	}
	hooks := []hook{
		{"create", "INSERT",
			func(n string, f func(*gorm.DB)) error { return cb.Create().Before("gorm:create").Register(n, f) },
			func(n string, f func(*gorm.DB)) error { return cb.Create().After("gorm:create").Register(n, f) }},
		{"query", "SELECT",
			func(n string, f func(*gorm.DB)) error { return cb.Query().Before("gorm:query").Register(n, f) },
			func(n string, f func(*gorm.DB)) error { return cb.Query().After("gorm:query").Register(n, f) }},
		{"update", "UPDATE",
			func(n string, f func(*gorm.DB)) error { return cb.Update().Before("gorm:update").Register(n, f) },
			func(n string, f func(*gorm.DB)) error { return cb.Update().After("gorm:update").Register(n, f) }},
		{"delete", "DELETE",
			func(n string, f func(*gorm.DB)) error { return cb.Delete().Before("gorm:delete").Register(n, f) },
			func(n string, f func(*gorm.DB)) error { return cb.Delete().After("gorm:delete").Register(n, f) }},
		{"row", "",
			func(n string, f func(*gorm.DB)) error { return cb.Row().Before("gorm:row").Register(n, f) },
			func(n string, f func(*gorm.DB)) error { return cb.Row().After("gorm:row").Register(n, f) }},
		{"raw", "",
			func(n string, f func(*gorm.DB)) error { return cb.Raw().Before("gorm:raw").Register(n, f) },
			func(n string, f func(*gorm.DB)) error { return cb.Raw().After("gorm:raw").Register(n, f) }},
	}

	for _, h := range hooks {
		op := h.operation
		if err := h.before(prefix+":before_"+h.name, before); err != nil {
			return err
		}
		if err := h.after(prefix+":after_"+h.name, func(tx *gorm.DB) { after(tx, op) }); err != nil {
			return err
		}
	}
	return nil
}
