package geometry

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WriteFloat32s writes data as little-endian float32 values, the layout
// expected by gl.bufferData on every supported target.
func WriteFloat32s(w io.Writer, data []float32) error {
	if err := binary.Write(w, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("write float buffer: %w", err)
	}
	return nil
}

// WriteSphere writes positions followed by normals.
func WriteSphere(w io.Writer, s Sphere) error {
	if err := WriteFloat32s(w, s.Vertices); err != nil {
		return err
	}
	return WriteFloat32s(w, s.Normals)
}

// WriteUint16s writes element indices as little-endian uint16 values.
func WriteUint16s(w io.Writer, data []uint16) error {
	if err := binary.Write(w, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("write index buffer: %w", err)
	}
	return nil
}
