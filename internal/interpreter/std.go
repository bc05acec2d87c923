package interpreter

import (
	"context"
	"time"
)

// StdFnClock returns the seconds elapsed since the interpreter was created.
func StdFnClock(ctx context.Context, interpreter *interpreter) (Value, error) {
	return ValueFloat(time.Since(interpreter.startedAt).Seconds()), nil
}

func defineStdlib(globals *environment) {
	clock := NewNativeFunction0("clock", StdFnClock)
	globals.Define(clock.Name(), ValueCallable{clock})
}
