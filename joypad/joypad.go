package joypad

// Joypad holds the eight button states and encodes them into P1 (0xff00).
// Button masks are 1<<constant.DIR_* and 1<<constant.ACT_*.
type Joypad struct {
	selectAction, selectDirection bool
	action, direction             uint8 // pressed bits
}

func NewJoypad() *Joypad {
	return &Joypad{}
}

func (j *Joypad) Set(val uint8) {
	j.selectAction = ((val >> 5) & 1) == 0
	j.selectDirection = ((val >> 4) & 1) == 0
}

// Get returns the P1 register. Lines are active low.
func (j *Joypad) Get() uint8 {
	var sel, pressed uint8 = 0x30, 0
	if j.selectAction {
		sel &^= 0x20
		pressed |= j.action
	}
	if j.selectDirection {
		sel &^= 0x10
		pressed |= j.direction
	}
	return 0xc0 | sel | (0x0f &^ pressed)
}

// SetButtons replaces the pressed sets and reports whether any button went
// from released to pressed.
func (j *Joypad) SetButtons(direction, action uint8) bool {
	direction &= 0x0f
	action &= 0x0f
	newlyPressed := direction&^j.direction != 0 || action&^j.action != 0
	j.direction = direction
	j.action = action
	return newlyPressed
}

func (j *Joypad) Direction() uint8 {
	return j.direction
}

func (j *Joypad) Action() uint8 {
	return j.action
}
