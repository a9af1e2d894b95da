// Package event provides the event model and dispatcher shared by the
// program loop, the input system and scripts.
//
// An Event is an ID plus an optional Data payload. IDs are plain integers:
// the framework reserves Update, Render and Exit, and other packages
// allocate their own with Register.
//
// # Dispatch
//
// Listeners are registered per ID together with an owner:
//
//	d := event.NewDispatcher()
//	err := d.AddEventListener(event.Update, sys, sys.OnUpdate)
//	...
//	d.RemoveEventListener(event.Update, sys, sys.OnUpdate)
//
// Dispatch is synchronous. It copies the listener list for the ID before
// calling anything, so a listener may add or remove listeners (itself
// included) or dispatch other events without disturbing the call in
// progress. Listeners added during a dispatch first run on the next one.
//
// # Payload ownership
//
// The dispatcher never copies payloads. A payload created with Borrow is
// only valid while its dispatch runs; code that needs to keep an event
// around (the deferred Queue, for example) calls Event.Clone.
package event
