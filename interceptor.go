package proxied

// Record is the mutable key/value state owned by a Store.
type Record map[string]any

// Interceptor computes the value returned for a property read. It receives
// the live Record and must not retain it.
type Interceptor interface {
	Get(record Record, property string) any
}

// InterceptorFunc adapts a function to Interceptor.
type InterceptorFunc func(record Record, property string) any

// Get implements Interceptor.
func (f InterceptorFunc) Get(record Record, property string) any {
	if f == nil {
		return record[property]
	}
	return f(record, property)
}

type passThrough struct{}

func (passThrough) Get(record Record, property string) any {
	return record[property]
}

// PassThrough returns the identity interceptor used when none is configured.
func PassThrough() Interceptor {
	return passThrough{}
}
