package display

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePanel struct {
	px      [64][128]bool
	flushes int
}

func (p *fakePanel) Size() (int16, int16) { return 128, 64 }

func (p *fakePanel) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= 128 || y >= 64 {
		return
	}
	p.px[y][x] = c.R != 0 || c.G != 0 || c.B != 0
}

func (p *fakePanel) Display() error {
	p.flushes++
	return nil
}

func TestKeypressAlternatesPaws(t *testing.T) {
	a := New(0)
	assert.Equal(t, uint32(DefaultTimeout), a.Timeout())
	assert.Equal(t, Idle, a.Sprite())

	want := []Sprite{TapLeft, TapRight, TapLeft, TapRight}
	for _, w := range want {
		a.HandleKeypress()
		assert.Equal(t, w, a.Sprite())
	}
}

func TestIdleAfterTimeout(t *testing.T) {
	a := New(5)
	a.TakeDirty()
	a.HandleKeypress()
	require.True(t, a.TakeDirty())

	for i := 0; i < 4; i++ {
		a.Tick()
	}
	assert.Equal(t, TapLeft, a.Sprite())
	assert.False(t, a.TakeDirty())

	a.Tick()
	assert.Equal(t, Idle, a.Sprite())
	assert.True(t, a.TakeDirty())

	a.Tick()
	assert.False(t, a.TakeDirty(), "idle stays clean")
}

func TestKeypressRestartsTimeout(t *testing.T) {
	a := New(3)
	a.HandleKeypress()
	a.Tick()
	a.Tick()
	a.HandleKeypress()
	a.Tick()
	a.Tick()
	assert.Equal(t, TapRight, a.Sprite())
	a.Tick()
	assert.Equal(t, Idle, a.Sprite())
}

func TestTimeoutAcrossWrap(t *testing.T) {
	a := New(10)
	a.ticks = ^uint32(0) - 2
	a.HandleKeypress()
	for i := 0; i < 9; i++ {
		a.Tick()
	}
	assert.Equal(t, TapLeft, a.Sprite())
	a.Tick()
	assert.Equal(t, Idle, a.Sprite())
}

func TestCaptionClearsOnIdle(t *testing.T) {
	a := New(2)
	a.TakeDirty()
	a.SetCaption("chase")
	assert.True(t, a.TakeDirty())
	a.SetCaption("chase")
	assert.False(t, a.TakeDirty())

	a.Tick()
	a.Tick()
	assert.Empty(t, a.Caption())
	assert.True(t, a.TakeDirty())
}

func TestRenderPaws(t *testing.T) {
	var p fakePanel
	require.NoError(t, Render(&p, TapLeft, ""))
	assert.Equal(t, 1, p.flushes)
	assert.True(t, p.px[pawDownY][leftPawX], "left paw down")
	assert.False(t, p.px[pawUpY][leftPawX])
	assert.True(t, p.px[pawUpY][rightPawX], "right paw up")
	assert.True(t, p.px[tableY][0])

	require.NoError(t, Render(&p, Idle, ""))
	assert.True(t, p.px[pawUpY][leftPawX])
	assert.False(t, p.px[pawDownY+pawH-1][leftPawX], "previous frame cleared")
}

func TestRenderCaption(t *testing.T) {
	var blank, captioned fakePanel
	require.NoError(t, Render(&blank, Idle, ""))
	require.NoError(t, Render(&captioned, Idle, "rainbow"))

	diff := 0
	for y := tableY + 1; y < 64; y++ {
		for x := 0; x < 128; x++ {
			if blank.px[y][x] != captioned.px[y][x] {
				diff++
			}
		}
	}
	assert.NotZero(t, diff)
}

func TestSpriteString(t *testing.T) {
	assert.Equal(t, "tap-right", TapRight.String())
	assert.Equal(t, "sprite(9)", Sprite(9).String())
}
