//go:build js && wasm

// PhotoCanvas WASM: in-browser collage editor backend.
// Compiled with: GOOS=js GOARCH=wasm go build -o photocanvas.wasm ./clients/wasm/
package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"syscall/js"

	"github.com/xob0t/photocanvas/pkg/compose"
	"github.com/xob0t/photocanvas/pkg/generator"
	"github.com/xob0t/photocanvas/pkg/session"
)

// The session is shared between JS callbacks and decode goroutines.
var (
	mu   sync.Mutex
	sess *session.Session
)

// jsObserver forwards slot events to window.pcOnSlotChange(slot, filled, error).
// Events are delivered after the session lock is released so the callback
// may call back into pc* functions.
type jsObserver struct{}

func notifyJS(args ...any) {
	go func() {
		if cb := js.Global().Get("pcOnSlotChange"); cb.Type() == js.TypeFunction {
			cb.Invoke(args...)
		}
	}()
}

func (jsObserver) SlotChanged(slot int, filled bool) {
	notifyJS(slot, filled, js.Null())
}

func (jsObserver) LoadFailed(slot int, err error) {
	notifyJS(slot, false, err.Error())
}

func main() {
	fmt.Println("PhotoCanvas WASM loaded")

	opts := []session.Option{
		session.WithObserver(jsObserver{}),
		session.WithLogger(log.New(os.Stdout, "", 0)),
	}
	if fm, err := compose.NewFontManager(""); err == nil {
		opts = append(opts, session.WithPreviewCompositor(compose.New(compose.WithPlaceholders(fm))))
	}
	sess = session.New(nil, opts...)

	// Register JS-callable functions.
	js.Global().Set("pcTemplates", js.FuncOf(templates))
	js.Global().Set("pcSelectTemplate", js.FuncOf(selectTemplate))
	js.Global().Set("pcSetCanvas", js.FuncOf(setCanvas))
	js.Global().Set("pcLoadImage", js.FuncOf(loadImage))
	js.Global().Set("pcClearSlot", js.FuncOf(clearSlot))
	js.Global().Set("pcSetZoom", js.FuncOf(setZoom))
	js.Global().Set("pcSetRotation", js.FuncOf(setRotation))
	js.Global().Set("pcDrag", js.FuncOf(drag))
	js.Global().Set("pcRender", js.FuncOf(render))
	js.Global().Set("pcExport", js.FuncOf(export))
	js.Global().Set("pcReady", js.ValueOf(true))

	// Block forever (WASM must not exit).
	select {}
}

func errValue(err error) js.Value {
	return js.ValueOf("error: " + err.Error())
}

// pcTemplates(): JSON array of the selectable templates.
func templates(this js.Value, args []js.Value) interface{} {
	mu.Lock()
	data, err := json.Marshal(sess.Templates())
	mu.Unlock()
	if err != nil {
		return errValue(err)
	}
	return js.ValueOf(string(data))
}

// pcSelectTemplate(id): switch layouts, emptying every slot.
func selectTemplate(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("error: need id")
	}
	mu.Lock()
	defer mu.Unlock()
	if !sess.SelectTemplate(args[0].String()) {
		return js.ValueOf("error: unknown template " + args[0].String())
	}
	return js.ValueOf("ok")
}

// pcSetCanvas(width, background, margin, radius)
func setCanvas(this js.Value, args []js.Value) interface{} {
	if len(args) < 4 {
		return js.ValueOf("error: need width, background, margin, radius")
	}
	bg, err := compose.ParseHexColor(args[1].String())
	if err != nil {
		return errValue(err)
	}
	mu.Lock()
	defer mu.Unlock()
	sess.SetConfig(compose.Config{
		Width:        args[0].Int(),
		Background:   bg,
		Margin:       args[2].Float(),
		CornerRadius: args[3].Float(),
	})
	return js.ValueOf("ok")
}

// pcLoadImage(slot, base64Data): decode in the background. The result is
// reported through pcOnSlotChange; a newer load for the slot wins.
func loadImage(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("error: need slot, base64Data")
	}
	data, err := base64.StdEncoding.DecodeString(args[1].String())
	if err != nil {
		return js.ValueOf("error: invalid base64: " + err.Error())
	}

	mu.Lock()
	t, ok := sess.BeginLoad(args[0].Int())
	mu.Unlock()
	if !ok {
		return js.ValueOf(fmt.Sprintf("error: slot %d out of range", args[0].Int()))
	}

	go func() {
		res := sess.Load(context.Background(), t, bytes.NewReader(data))
		mu.Lock()
		defer mu.Unlock()
		sess.Apply(res)
	}()
	return js.ValueOf("ok")
}

func slotCall(args []js.Value, n int, f func() error) interface{} {
	if len(args) < n {
		return js.ValueOf(fmt.Sprintf("error: need %d arguments", n))
	}
	mu.Lock()
	defer mu.Unlock()
	if err := f(); err != nil {
		return errValue(err)
	}
	return js.ValueOf("ok")
}

// pcClearSlot(slot)
func clearSlot(this js.Value, args []js.Value) interface{} {
	return slotCall(args, 1, func() error { return sess.ClearSlot(args[0].Int()) })
}

// pcSetZoom(slot, zoom)
func setZoom(this js.Value, args []js.Value) interface{} {
	return slotCall(args, 2, func() error { return sess.SetZoom(args[0].Int(), args[1].Float()) })
}

// pcSetRotation(slot, degrees)
func setRotation(this js.Value, args []js.Value) interface{} {
	return slotCall(args, 2, func() error { return sess.SetRotation(args[0].Int(), args[1].Float()) })
}

// pcDrag(slot, dx, dy, displayWidth, displayHeight): pan by a pointer
// delta measured on the displayed canvas.
func drag(this js.Value, args []js.Value) interface{} {
	return slotCall(args, 5, func() error {
		return sess.Drag(args[0].Int(), args[1].Float(), args[2].Float(), args[3].Float(), args[4].Float())
	})
}

// pcRender(): base64 PNG of the editing preview, slot labels included.
func render(this js.Value, args []js.Value) interface{} {
	mu.Lock()
	img := sess.Preview()
	var buf bytes.Buffer
	err := generator.GenerateToWriter(&buf, "png", generator.Config{Image: img})
	mu.Unlock()
	if err != nil {
		return errValue(err)
	}
	return js.ValueOf(base64.StdEncoding.EncodeToString(buf.Bytes()))
}

// pcExport(format): {name, mime, data} with base64 data, or an error string
// when no slot holds an image.
func export(this js.Value, args []js.Value) interface{} {
	format := "png"
	if len(args) > 0 && args[0].String() != "" {
		format = args[0].String()
	}

	mu.Lock()
	var buf bytes.Buffer
	name, err := sess.Export(&buf, format)
	mu.Unlock()
	if err != nil {
		return errValue(err)
	}

	return js.ValueOf(map[string]interface{}{
		"name": name,
		"mime": generator.ContentType(format),
		"data": base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
}
