//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type gridKey struct {
	key      ebiten.Key
	row, col int
}

// keyGrid places desktop keys on the switch positions of the 5x16 board.
// F1 and F2 sit on the two function layer keys.
var keyGrid = []gridKey{
	{ebiten.KeyEscape, 0, 0}, {ebiten.KeyDigit1, 0, 1}, {ebiten.KeyDigit2, 0, 2}, {ebiten.KeyDigit3, 0, 3},
	{ebiten.KeyDigit4, 0, 4}, {ebiten.KeyDigit5, 0, 5}, {ebiten.KeyDigit6, 0, 6}, {ebiten.KeyDigit7, 0, 7},
	{ebiten.KeyDigit8, 0, 8}, {ebiten.KeyDigit9, 0, 9}, {ebiten.KeyDigit0, 0, 10}, {ebiten.KeyMinus, 0, 11},
	{ebiten.KeyEqual, 0, 12}, {ebiten.KeyBackspace, 0, 14}, {ebiten.KeyDelete, 0, 15},

	{ebiten.KeyTab, 1, 0}, {ebiten.KeyQ, 1, 2}, {ebiten.KeyW, 1, 3}, {ebiten.KeyE, 1, 4},
	{ebiten.KeyR, 1, 5}, {ebiten.KeyT, 1, 6}, {ebiten.KeyY, 1, 7}, {ebiten.KeyU, 1, 8},
	{ebiten.KeyI, 1, 9}, {ebiten.KeyO, 1, 10}, {ebiten.KeyP, 1, 11}, {ebiten.KeyBracketLeft, 1, 12},
	{ebiten.KeyBracketRight, 1, 13}, {ebiten.KeyBackslash, 1, 14}, {ebiten.KeyPrintScreen, 1, 15},

	{ebiten.KeyCapsLock, 2, 0}, {ebiten.KeyA, 2, 2}, {ebiten.KeyS, 2, 3}, {ebiten.KeyD, 2, 4},
	{ebiten.KeyF, 2, 5}, {ebiten.KeyG, 2, 6}, {ebiten.KeyH, 2, 7}, {ebiten.KeyJ, 2, 8},
	{ebiten.KeyK, 2, 9}, {ebiten.KeyL, 2, 10}, {ebiten.KeySemicolon, 2, 11}, {ebiten.KeyQuote, 2, 12},
	{ebiten.KeyEnter, 2, 13}, {ebiten.KeyArrowUp, 2, 15},

	{ebiten.KeyShiftLeft, 3, 0}, {ebiten.KeyZ, 3, 2}, {ebiten.KeyX, 3, 3}, {ebiten.KeyC, 3, 4},
	{ebiten.KeyV, 3, 5}, {ebiten.KeyB, 3, 6}, {ebiten.KeyN, 3, 7}, {ebiten.KeyM, 3, 8},
	{ebiten.KeyComma, 3, 9}, {ebiten.KeyPeriod, 3, 10}, {ebiten.KeySlash, 3, 11}, {ebiten.KeyShiftRight, 3, 13},
	{ebiten.KeyArrowDown, 3, 15},

	{ebiten.KeyControlLeft, 4, 0}, {ebiten.KeyMetaLeft, 4, 1}, {ebiten.KeyAltLeft, 4, 2}, {ebiten.KeySpace, 4, 6},
	{ebiten.KeyAltRight, 4, 10}, {ebiten.KeyF2, 4, 11}, {ebiten.KeyContextMenu, 4, 13}, {ebiten.KeyControlRight, 4, 14},
	{ebiten.KeyF1, 4, 15},
}

// pollKeys copies the desktop keyboard state onto the matrix. F10 releases
// every switch, which clears keys stuck by a lost focus event.
func pollKeys(m *VirtualMatrix) {
	if inpututil.IsKeyJustPressed(ebiten.KeyF10) {
		m.ReleaseAll()
		return
	}
	for _, k := range keyGrid {
		m.Set(k.row, k.col, ebiten.IsKeyPressed(k.key))
	}
}
