// Package program implements the run loop.
//
// Each iteration samples the clock, fills a FrameTimeInfo, dispatches
// Update unthrottled and, once a full fixed update interval (1/TargetFPS)
// has accumulated, performs a render pass: Clear, dispatch Render,
// SwapBuffers. Delta scales per-update motion so it stays independent of
// how fast the loop actually spins.
//
//	p, err := program.New(program.Options{Graphics: term, Input: term})
//	if err != nil {
//	    return err
//	}
//	p.AddEventListener(event.Update, nil, func(evt event.Event) error {
//	    u, _ := event.DataAs[*program.UpdateData](evt)
//	    x += speed * u.Info.Delta
//	    return nil
//	})
//	return p.Run()
//
// Exit stops the loop after the current iteration; the Exit event is the
// last event the program dispatches.
package program
