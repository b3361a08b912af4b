package adapters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"
)

// readDocument loads a YAML, JSON or TOML document, chosen by file
// extension. Anything that is not .json or .toml is read as YAML.
func readDocument(path string, kind string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("%s file not found", kind)).
			WithCause(err)
	}
	if err := decodeDocument(path, data, out); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to parse %s", kind)).
			WithCause(err)
	}
	return nil
}

func decodeDocument(path string, data []byte, out any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		return decoder.Decode(out)
	case ".toml":
		_, err := toml.Decode(string(data), out)
		return err
	default:
		return yaml.Unmarshal(data, out)
	}
}
