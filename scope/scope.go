// Package scope holds the stacked name resolution shared by the checker, the
// interpreter and the code generator. V is what a variable resolves to and F what a
// function resolves to.
package scope

type Frame[V, F any] struct {
	Variables map[string]V
	Functions map[string]F
}

func NewFrame[V, F any]() *Frame[V, F] {
	return &Frame[V, F]{
		Variables: make(map[string]V),
		Functions: make(map[string]F),
	}
}

// Stack is never empty: its bottom frame is the global scope.
type Stack[V, F any] struct {
	frames []*Frame[V, F]
}

func New[V, F any]() *Stack[V, F] {
	return &Stack[V, F]{
		frames: []*Frame[V, F]{NewFrame[V, F]()},
	}
}

func (s *Stack[V, F]) Push() {
	s.frames = append(s.frames, NewFrame[V, F]())
}

func (s *Stack[V, F]) Pop() {
	if len(s.frames) == 1 {
		panic("scope: popping the global frame")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *Stack[V, F]) top() *Frame[V, F] {
	return s.frames[len(s.frames)-1]
}

// Depth is the number of frames, global included.
func (s *Stack[V, F]) Depth() int {
	return len(s.frames)
}

// Frames returns the frames from the global one to the innermost.
func (s *Stack[V, F]) Frames() []*Frame[V, F] {
	return s.frames
}

// Declare binds name in the innermost frame, shadowing outer bindings and
// overwriting one in the same frame.
func (s *Stack[V, F]) Declare(name string, v V) {
	s.top().Variables[name] = v
}

func (s *Stack[V, F]) DeclareFunction(name string, f F) {
	s.top().Functions[name] = f
}

func (s *Stack[V, F]) Resolve(name string) (v V, ok bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok = s.frames[i].Variables[name]; ok {
			return
		}
	}
	return
}

func (s *Stack[V, F]) ResolveFunction(name string) (f F, ok bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if f, ok = s.frames[i].Functions[name]; ok {
			return
		}
	}
	return
}

// Assign rebinds the innermost existing binding of name. It reports false when no
// frame holds name.
func (s *Stack[V, F]) Assign(name string, v V) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if _, ok := s.frames[i].Variables[name]; ok {
			s.frames[i].Variables[name] = v
			return true
		}
	}
	return false
}

// Isolate replaces the whole stack with frame alone, as a function call does, and
// returns the func that puts the caller's frames back.
func (s *Stack[V, F]) Isolate(frame *Frame[V, F]) (restore func()) {
	saved := s.frames
	s.frames = []*Frame[V, F]{frame}

	return func() {
		s.frames = saved
	}
}

// Checkpoint copies every frame and returns the func that puts the copies back,
// discarding whatever was declared or assigned since.
func (s *Stack[V, F]) Checkpoint() (rollback func()) {
	saved := make([]*Frame[V, F], len(s.frames))
	for i, frame := range s.frames {
		copied := NewFrame[V, F]()
		for name, v := range frame.Variables {
			copied.Variables[name] = v
		}
		for name, f := range frame.Functions {
			copied.Functions[name] = f
		}
		saved[i] = copied
	}

	return func() {
		s.frames = saved
	}
}
