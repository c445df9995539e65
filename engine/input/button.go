package input

import "fmt"

// ButtonKind distinguishes the device a Button belongs to.
type ButtonKind uint8

const (
	ButtonKindKey ButtonKind = iota
	ButtonKindMouse
)

// Key is a physical keyboard key code. Values follow GLFW key codes.
type Key uint32

const (
	KeySpace        Key = 32
	KeyApostrophe   Key = 39
	KeyComma        Key = 44
	KeyMinus        Key = 45
	KeyPeriod       Key = 46
	KeySlash        Key = 47
	Key0            Key = 48
	Key1            Key = 49
	Key2            Key = 50
	Key3            Key = 51
	Key4            Key = 52
	Key5            Key = 53
	Key6            Key = 54
	Key7            Key = 55
	Key8            Key = 56
	Key9            Key = 57
	KeySemicolon    Key = 59
	KeyEqual        Key = 61
	KeyA            Key = 65
	KeyB            Key = 66
	KeyC            Key = 67
	KeyD            Key = 68
	KeyE            Key = 69
	KeyF            Key = 70
	KeyG            Key = 71
	KeyH            Key = 72
	KeyI            Key = 73
	KeyJ            Key = 74
	KeyK            Key = 75
	KeyL            Key = 76
	KeyM            Key = 77
	KeyN            Key = 78
	KeyO            Key = 79
	KeyP            Key = 80
	KeyQ            Key = 81
	KeyR            Key = 82
	KeyS            Key = 83
	KeyT            Key = 84
	KeyU            Key = 85
	KeyV            Key = 86
	KeyW            Key = 87
	KeyX            Key = 88
	KeyY            Key = 89
	KeyZ            Key = 90
	KeyLeftBracket  Key = 91
	KeyBackslash    Key = 92
	KeyRightBracket Key = 93
	KeyGraveAccent  Key = 96
	KeyEscape       Key = 256
	KeyEnter        Key = 257
	KeyTab          Key = 258
	KeyBackspace    Key = 259
	KeyInsert       Key = 260
	KeyDelete       Key = 261
	KeyRight        Key = 262
	KeyLeft         Key = 263
	KeyDown         Key = 264
	KeyUp           Key = 265
	KeyPageUp       Key = 266
	KeyPageDown     Key = 267
	KeyHome         Key = 268
	KeyEnd          Key = 269
	KeyF1           Key = 290
	KeyF2           Key = 291
	KeyF3           Key = 292
	KeyF4           Key = 293
	KeyF5           Key = 294
	KeyF6           Key = 295
	KeyF7           Key = 296
	KeyF8           Key = 297
	KeyF9           Key = 298
	KeyF10          Key = 299
	KeyF11          Key = 300
	KeyF12          Key = 301
	KeyLeftShift    Key = 340
	KeyLeftControl  Key = 341
	KeyLeftAlt      Key = 342
	KeyLeftSuper    Key = 343
	KeyRightShift   Key = 344
	KeyRightControl Key = 345
	KeyRightAlt     Key = 346
	KeyRightSuper   Key = 347
)

// MouseButton is a mouse button code. Values follow GLFW mouse button codes.
type MouseButton uint32

const (
	MouseButtonLeft   MouseButton = 0
	MouseButtonRight  MouseButton = 1
	MouseButtonMiddle MouseButton = 2
	MouseButton4      MouseButton = 3
	MouseButton5      MouseButton = 4
)

// Button identifies a single physical input, either a keyboard key or a mouse button.
// Buttons compare by value and are used directly as map keys.
type Button struct {
	Kind ButtonKind
	Code uint32
}

// KeyButton returns the Button for the given keyboard key.
//
// Parameters:
//   - key: the keyboard key code
//
// Returns:
//   - Button: a key button
func KeyButton(key Key) Button {
	return Button{Kind: ButtonKindKey, Code: uint32(key)}
}

// MouseButtonOf returns the Button for the given mouse button.
//
// Parameters:
//   - mb: the mouse button code
//
// Returns:
//   - Button: a mouse button
func MouseButtonOf(mb MouseButton) Button {
	return Button{Kind: ButtonKindMouse, Code: uint32(mb)}
}

func (b Button) String() string {
	switch b.Kind {
	case ButtonKindKey:
		return fmt.Sprintf("Key(%d)", b.Code)
	case ButtonKindMouse:
		return fmt.Sprintf("Mouse(%d)", b.Code)
	default:
		return fmt.Sprintf("Button(%d:%d)", b.Kind, b.Code)
	}
}
