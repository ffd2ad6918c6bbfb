package preview

import "gocv.io/x/gocv"

// WindowTitle is the on-screen title of the monitoring window.
const WindowTitle = "Mudra Gesture Monitor"

// Window wraps the GoCV display window used for the live preview.
type Window struct {
	win *gocv.Window
}

// NewWindow opens the preview window.
func NewWindow() *Window {
	return &Window{win: gocv.NewWindow(WindowTitle)}
}

// Show displays the frame and pumps the window event loop. It returns
// false when the user asked to quit with the 'q' key.
func (w *Window) Show(frame *gocv.Mat) bool {
	if frame == nil || frame.Empty() {
		return true
	}

	w.win.IMShow(*frame)
	key := w.win.WaitKey(1)
	return key != 'q'
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}
