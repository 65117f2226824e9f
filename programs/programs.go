// Package programs bundles a handful of user programs and the executables
// which run them.
package programs

import (
	"embed"
	"path"

	"github.com/jnwhiteh/userkernel/loader"
)

// Executable names of the bundled programs.
const (
	FSCrasherImage = "fscrasher.coff"
	MatMultImage   = "matmult.coff"
	TestExecImage  = "test_exec.coff"
)

//go:embed images/*.yaml
var scripts embed.FS

// Register binds the entry points of the bundled programs.
func Register(reg *loader.Registry) {
	reg.Register("fscrasher", loader.ProgramFunc(FSCrasher))
	reg.Register("matmult", loader.ProgramFunc(MatMult))
	reg.Register("test_exec", loader.ProgramFunc(TestExec))
}

// Images returns every bundled executable, keyed by the name under which it
// should be installed. Script images are named after their file, with the
// extension replaced by ".coff".
func Images() map[string][]byte {
	var out = map[string][]byte{
		FSCrasherImage: loader.Encode(&loader.Image{Entry: "fscrasher", Pages: 2}),
		MatMultImage:   loader.Encode(&loader.Image{Entry: "matmult", Pages: 8}),
		TestExecImage:  loader.Encode(&loader.Image{Entry: "test_exec", Pages: 2}),
	}

	var entries, err = scripts.ReadDir("images")
	if err != nil {
		panic(err) // Embedded.
	}
	for _, e := range entries {
		var data, err = scripts.ReadFile(path.Join("images", e.Name()))
		if err != nil {
			panic(err)
		}
		var name = e.Name()[:len(e.Name())-len(path.Ext(e.Name()))] + ".coff"
		out[name] = data
	}
	return out
}
