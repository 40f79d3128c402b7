package services

import (
	"bytes"
	"math"
	"testing"
)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

func item(desc, category, room string, qty, rcv float64) LineItem {
	return LineItem{Description: desc, Category: category, Room: room, Quantity: qty, Unit: "SF", RCV: rcv}
}

// sampleItems is a small estimate with two categories across two rooms.
func sampleItems() []LineItem {
	return []LineItem{
		item("Remove drywall", "Drywall/Plaster", "Kitchen", 10, 10),
		item("Hang drywall", "Drywall/Plaster", "Kitchen", 30, 30),
		item("Tape drywall", "Drywall/Plaster", "Bedroom", 60, 60),
		item("Paint walls", "Painting", "Bedroom", 5, 50),
	}
}

func assertClose(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}
