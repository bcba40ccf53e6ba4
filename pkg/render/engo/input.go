// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-cannon/pkg/render"
)

// Button names
const (
	ButtonAngleUp   = "angleUp"
	ButtonAngleDown = "angleDown"
	ButtonFire      = "fire"
	ButtonBackspace = "backspace"
	ButtonReset     = "reset"
	ButtonQuit      = "quit"
)

// speedButton binds a key to a character of the speed field
type speedButton struct {
	name string
	key  engo.Key
	char rune
}

var speedButtons = []speedButton{
	{"speed0", engo.KeyZero, '0'},
	{"speed1", engo.KeyOne, '1'},
	{"speed2", engo.KeyTwo, '2'},
	{"speed3", engo.KeyThree, '3'},
	{"speed4", engo.KeyFour, '4'},
	{"speed5", engo.KeyFive, '5'},
	{"speed6", engo.KeySix, '6'},
	{"speed7", engo.KeySeven, '7'},
	{"speed8", engo.KeyEight, '8'},
	{"speed9", engo.KeyNine, '9'},
	{"speedPoint", engo.KeyPeriod, '.'},
}

// InputSystem maps engo buttons onto the trainer controls
type InputSystem struct {
	controls *render.Controls
	// pressed reports whether a button went down this frame
	pressed func(name string) bool
	exit    func()
}

// NewInputSystem creates an input system reading engo.Input
func NewInputSystem(controls *render.Controls) *InputSystem {
	return &InputSystem{
		controls: controls,
		pressed:  justPressed,
		exit:     engo.Exit,
	}
}

func justPressed(name string) bool {
	return engo.Input.Button(name).JustPressed()
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Priority runs input before the simulation step
func (is *InputSystem) Priority() int {
	return 20
}

// Update applies this frame's key presses
func (is *InputSystem) Update(dt float32) {
	is.apply()
	if is.controls.Quit() {
		is.exit()
	}
}

func (is *InputSystem) apply() {
	if is.pressed(ButtonQuit) {
		is.controls.RequestQuit()
		return
	}

	if is.pressed(ButtonAngleUp) {
		is.controls.AdjustAngle(render.AngleStep)
	}
	if is.pressed(ButtonAngleDown) {
		is.controls.AdjustAngle(-render.AngleStep)
	}

	for _, b := range speedButtons {
		if is.pressed(b.name) {
			is.controls.TypeRune(b.char)
		}
	}
	if is.pressed(ButtonBackspace) {
		is.controls.Backspace()
	}

	if is.pressed(ButtonReset) {
		is.controls.Reset()
	}
	if is.pressed(ButtonFire) {
		_ = is.controls.Fire()
	}
}

// SetupInputBindings registers the trainer's key bindings
func SetupInputBindings() {
	engo.Input.RegisterButton(ButtonAngleUp, engo.KeyArrowUp, engo.KeyArrowRight)
	engo.Input.RegisterButton(ButtonAngleDown, engo.KeyArrowDown, engo.KeyArrowLeft)
	engo.Input.RegisterButton(ButtonFire, engo.KeyEnter, engo.KeySpace)
	engo.Input.RegisterButton(ButtonBackspace, engo.KeyBackspace)
	engo.Input.RegisterButton(ButtonReset, engo.KeyR)
	engo.Input.RegisterButton(ButtonQuit, engo.KeyEscape, engo.KeyQ)

	for _, b := range speedButtons {
		engo.Input.RegisterButton(b.name, b.key)
	}
}
