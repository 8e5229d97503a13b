//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"

	"github.com/smallyu/go-ecdsa/internal/jsbridge"
)

func main() {
	c := make(chan struct{}, 0)

	fmt.Println("Go ECDSA WASM Initialized")

	b := jsbridge.New()

	// Expose Go functions to JS. Each takes one JSON string argument and
	// returns a JSON string, or "error: ..." on failure.
	js.Global().Set("GoECDSA", map[string]interface{}{
		"GenerateKey": js.FuncOf(wrap(b.GenerateKey)),
		"Sign":        js.FuncOf(wrap(b.Sign)),
		"Verify":      js.FuncOf(wrap(b.Verify)),
	})

	<-c
}

func wrap(fn func(string) (string, error)) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if len(args) != 1 {
			return "error: expected 1 argument (jsonRequest)"
		}
		out, err := fn(args[0].String())
		if err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		return out
	}
}
