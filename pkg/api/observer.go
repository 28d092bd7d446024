package api

// Observer receives the operational messages emitted while a report is
// summarized. *logrus.Logger and *logrus.Entry satisfy it.
type Observer interface {
	Debugf(format string, args ...interface{})
}

type nopObserver struct{}

func (nopObserver) Debugf(string, ...interface{}) {}

// Option customizes a Summarize call.
type Option func(*options)

type options struct {
	observer Observer
}

// WithObserver sets the sink receiving debug messages during summarization.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		if o != nil {
			opts.observer = o
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{observer: nopObserver{}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
