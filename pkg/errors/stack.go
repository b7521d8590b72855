package errors

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

type stack pkgerrors.StackTrace

// callers 返回调用者的调用栈，跳过callers自身
func callers() stack {
	st := pkgerrors.New("").(stackTracer).StackTrace()
	if len(st) > 1 {
		st = st[1:]
	}
	return stack(st)
}

// fullStack 每一帧格式化为 "函数名 文件:行号"
func (s stack) fullStack() []string {
	frames := make([]string, 0, len(s))
	for _, f := range s {
		frames = append(frames, fmt.Sprintf("%n %s:%d", f, f, f))
	}
	return frames
}

// key 返回用于限流的调用栈帧，栈过浅时退化为最后一帧
func (s stack) key(depth int) string {
	frames := s.fullStack()
	if len(frames) == 0 {
		return ""
	}
	if depth >= len(frames) {
		depth = len(frames) - 1
	}
	return frames[depth]
}
