package shader

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed aurora.wgsl
var auroraWGSL string

// Entry points of the WGSL program.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// Source returns the WGSL source of the program.
func Source() string {
	return auroraWGSL
}

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// CompileSPIRV compiles the WGSL program to a SPIR-V module (little-endian
// bytes) for hosts that bind shaders themselves.
func CompileSPIRV() ([]byte, error) {
	spirv, err := naga.Compile(auroraWGSL)
	if err != nil {
		return nil, fmt.Errorf("shader: compile aurora.wgsl: %w", err)
	}
	if len(spirv) < 4 || len(spirv)%4 != 0 {
		return nil, fmt.Errorf("shader: compiled module has invalid size %d", len(spirv))
	}
	return spirv, nil
}

// Words converts a SPIR-V byte module into 32-bit words.
func Words(spirv []byte) []uint32 {
	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = uint32(spirv[i*4]) |
			uint32(spirv[i*4+1])<<8 |
			uint32(spirv[i*4+2])<<16 |
			uint32(spirv[i*4+3])<<24
	}
	return words
}
