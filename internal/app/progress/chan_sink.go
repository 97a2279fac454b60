package progress

// ChanSink decouples the pipeline from a slow consumer through a bounded
// channel. Emit never blocks: when the buffer is full the oldest pending
// event is dropped in favour of the newest, so the consumer always converges
// on the most recent state.
type ChanSink struct {
	ch chan Event
}

func NewChanSink(buffer int) *ChanSink {
	if buffer <= 0 {
		buffer = 16
	}
	return &ChanSink{ch: make(chan Event, buffer)}
}

func (s *ChanSink) Emit(e Event) {
	for {
		select {
		case s.ch <- e:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

// Events is the consumer side. Closed by Close once the run is terminal.
func (s *ChanSink) Events() <-chan Event {
	return s.ch
}

func (s *ChanSink) Close() {
	close(s.ch)
}
