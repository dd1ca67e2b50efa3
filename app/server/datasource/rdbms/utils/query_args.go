package utils

import "github.com/quarrydb/native-connector-go/app/api"

type QueryArg struct {
	Type  api.Type
	Value any
}

type QueryArgs struct {
	args []*QueryArg
}

func (q *QueryArgs) AddTyped(t api.Type, arg any) *QueryArgs {
	q.args = append(q.args, &QueryArg{t, arg})

	return q
}

func (q *QueryArgs) AddUntyped(arg any) *QueryArgs { return q.AddTyped("", arg) }

func (q *QueryArgs) Count() int {
	if q == nil {
		return 0
	}

	return len(q.args)
}

func (q *QueryArgs) Values() []any {
	if q == nil {
		return nil
	}

	args := make([]any, len(q.args))
	for i, arg := range q.args {
		args[i] = arg.Value
	}

	return args
}

func (q *QueryArgs) Get(i int) *QueryArg { return q.args[i] }

func (q *QueryArgs) GetAll() []*QueryArg {
	if q == nil {
		return nil
	}

	return q.args
}
