package bind

import "reflect"

func reflectField[T any](i int) reflect.StructField {
	var zero T
	return reflect.TypeOf(zero).Field(i)
}
