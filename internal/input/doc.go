// Package input turns terminal events into dispatcher events.
//
// A System polls a Source once per Update and dispatches KeyPress with a
// *KeyData payload for every recognized key, TextInput for printable runes
// and Resize when the window changes size. Keys are reported as Key codes
// with a stable numbering that scripts can rely on:
//
//	p.AddEventListener(input.KeyPress, owner, func(evt event.Event) error {
//	    k, _ := event.DataAs[*input.KeyData](evt)
//	    if k.Key == input.Space {
//	        ...
//	    }
//	    return nil
//	})
package input
