package lazy

// Fallbacks renders the non-ready states of a suspend boundary.
type Fallbacks struct {
	Pending func() string
	Failed  func(err error) string
}

// Boundary renders render(module) once f is ready, the pending placeholder
// while it loads, and the failure view when acquisition failed. A failure is
// never rendered as an empty string.
func Boundary[T any](f *Future[T], fb Fallbacks, render func(T) string) string {
	if f == nil {
		return pendingView(fb)
	}
	value, err, state := f.Result()
	switch state {
	case Ready:
		return render(value)
	case Failed:
		if fb.Failed != nil {
			if out := fb.Failed(err); out != "" {
				return out
			}
		}
		return "failed to load " + f.Name() + ": " + errString(err)
	default:
		return pendingView(fb)
	}
}

func pendingView(fb Fallbacks) string {
	if fb.Pending != nil {
		return fb.Pending()
	}
	return "Loading..."
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
