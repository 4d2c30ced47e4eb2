package lock

// Dial is the combination lock in front of the cover. Every roller starts
// at 0 and the lock opens as soon as a change makes the rollers read the
// combination.
type Dial struct {
	code     string
	digits   [Digits]int
	selected int
	open     bool
}

// NewDial returns a closed dial for code.
func NewDial(code string) *Dial {
	return &Dial{code: code}
}

// Digits returns the numbers the rollers show.
func (d *Dial) Digits() [Digits]int {
	return d.digits
}

// Selected returns the index of the roller under the cursor.
func (d *Dial) Selected() int {
	return d.selected
}

// Open reports whether the combination has been found.
func (d *Dial) Open() bool {
	return d.open
}

// Select moves the cursor by delta rollers, wrapping at either end.
func (d *Dial) Select(delta int) {
	d.selected = mod(d.selected+delta, Digits)
}

// Roll turns the selected roller by delta and reports whether the lock
// opened.
func (d *Dial) Roll(delta int) bool {
	if d.open {
		return true
	}
	d.digits[d.selected] = mod(d.digits[d.selected]+delta, 10)
	return d.check()
}

// Set puts digit on the selected roller and moves to the next one. It
// reports whether the lock opened.
func (d *Dial) Set(digit int) bool {
	if d.open {
		return true
	}
	d.digits[d.selected] = mod(digit, 10)
	d.Select(1)
	return d.check()
}

func (d *Dial) check() bool {
	for i, r := range d.code {
		if i >= Digits || int(r-'0') != d.digits[i] {
			return false
		}
	}
	d.open = len(d.code) == Digits
	return d.open
}

func mod(n, m int) int {
	return ((n % m) + m) % m
}
