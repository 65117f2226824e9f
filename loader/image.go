package loader

import (
	"github.com/jnwhiteh/userkernel/common"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// ScriptEntry is the entry point of images whose program is their script.
const ScriptEntry = "script"

// Image is a decoded executable.
type Image struct {
	// Entry names the program to run: either a Registry entry, or
	// ScriptEntry to interpret Script.
	Entry string `yaml:"entry"`
	// Pages is the number of code and data pages the image occupies.
	Pages int `yaml:"pages"`
	// Script is interpreted when Entry is ScriptEntry.
	Script []Step `yaml:"script,omitempty"`

	Program Program `yaml:"-"`
}

// Decode parses an image descriptor and resolves its entry point against
// |reg|. Any failure is reported as ENOEXEC.
func Decode(data []byte, reg *Registry) (*Image, error) {
	var img = new(Image)

	if err := yaml.UnmarshalStrict(data, img); err != nil {
		log.WithField("err", err).Debug("malformed image")
		return nil, errors.WithMessage(common.ENOEXEC, err.Error())
	} else if img.Entry == "" {
		return nil, errors.WithMessage(common.ENOEXEC, "image has no entry point")
	} else if img.Pages < 0 {
		return nil, errors.WithMessagef(common.ENOEXEC, "invalid page count %d", img.Pages)
	}

	if img.Entry == ScriptEntry {
		if err := validateScript(img.Script); err != nil {
			return nil, errors.WithMessage(common.ENOEXEC, err.Error())
		}
		img.Program = Script(img.Script)
	} else if prog, ok := reg.Lookup(img.Entry); ok {
		img.Program = prog
	} else {
		return nil, errors.WithMessagef(common.ENOEXEC, "unknown entry point %q", img.Entry)
	}
	return img, nil
}

// Encode renders an image descriptor.
func Encode(img *Image) []byte {
	var b, err = yaml.Marshal(img)
	if err != nil {
		panic(err) // Images always marshal.
	}
	return b
}
