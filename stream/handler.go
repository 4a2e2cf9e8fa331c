package stream

// Handler processes one value read by the event loop.
type Handler interface {
	Handle(value int)
}

// HandlerFunc lets plain functions, method values and closures act as a Handler.
type HandlerFunc func(value int)

func (f HandlerFunc) Handle(value int) {
	f(value)
}

// Handlers fans a value out to several handlers in registration order.
type Handlers []Handler

func (hs Handlers) Handle(value int) {
	for _, h := range hs {
		h.Handle(value)
	}
}
