package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/idsgo/internal/metadata"
)

// DictionaryField is the top-level CUE field holding the dictionary.
const DictionaryField = "dictionary"

// Load compiles the dictionary at path, a single .cue file or a directory
// holding one CUE package.
func Load(path string) (*metadata.Dictionary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

// LoadFile compiles a single CUE file.
func LoadFile(path string) (*metadata.Dictionary, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v := cuecontext.New().CompileBytes(src, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return CompileDictionary(v.LookupPath(cue.ParsePath(DictionaryField)))
}

// LoadDir loads and compiles the CUE package in dir.
func LoadDir(dir string) (*metadata.Dictionary, error) {
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances in %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(inst.Err)
	}
	v := cuecontext.New().BuildInstance(inst)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return CompileDictionary(v.LookupPath(cue.ParsePath(DictionaryField)))
}
