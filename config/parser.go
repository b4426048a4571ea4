package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	cmtos "github.com/cometbft/cometbft/libs/os"
	"gopkg.in/yaml.v2"
)

// DefaultPath is where the configuration lives unless --config says otherwise.
func DefaultPath() string {
	return filepath.Join("~", ".sandbox", ConfigFilename)
}

// ExpandHomeDir replaces a leading ~ with the user's home directory.
func ExpandHomeDir(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Load reads the configuration at filename over the defaults. A missing file yields the defaults.
// Paths inside the configuration are home-expanded. Load does not validate.
func Load(filename string) (*Configuration, bool, error) {
	filename = ExpandHomeDir(filename)

	config := Default()
	found := cmtos.FileExists(filename)
	if found {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, found, ErrInvalidConfig.Wrapf("read %s: %s", filename, err)
		}
		if err := Parse(data, config); err != nil {
			return nil, found, ErrInvalidConfig.Wrapf("%s: %s", filename, err)
		}
	}

	config.CredentialFile = ExpandHomeDir(config.CredentialFile)
	return config, found, nil
}

// Parse overlays YAML data onto config. Unknown keys are rejected so typos surface.
func Parse(data []byte, config *Configuration) error {
	return yaml.UnmarshalStrict(data, config)
}

// Initialize writes a commented template with the default values. It never overwrites a file.
func Initialize(filename string) error {
	filename = ExpandHomeDir(filename)
	if cmtos.FileExists(filename) {
		return ErrInvalidConfig.Wrapf("%s already exists", filename)
	}

	if err := cmtos.EnsureDir(filepath.Dir(filename), 0o700); err != nil {
		return ErrInvalidConfig.Wrapf("create directory for %s: %s", filename, err)
	}

	header := "This is the configuration file for cosmos-sandbox"
	data, err := yamlWithComments(Default(), header)
	if err != nil {
		return err
	}

	return cmtos.WriteFile(filename, data, 0o600)
}

// yamlWithComments marshals value and places each field's `comment` tag above its key.
func yamlWithComments(value interface{}, header string) ([]byte, error) {
	data, err := yaml.Marshal(value)
	if err != nil {
		return nil, err
	}

	comments := map[string]string{}
	valueType := reflect.Indirect(reflect.ValueOf(value)).Type()
	for i := 0; i < valueType.NumField(); i++ {
		field := valueType.Field(i)
		key := strings.Split(field.Tag.Get("yaml"), ",")[0]
		if comment := field.Tag.Get("comment"); key != "" && comment != "" {
			comments[key] = comment
		}
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "# %s\n\n", header)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if key, _, ok := strings.Cut(line, ":"); ok {
			if comment, found := comments[key]; found {
				fmt.Fprintf(&out, "# %s\n", comment)
			}
		}
		out.WriteString(line)
		out.WriteString("\n")
	}
	return out.Bytes(), scanner.Err()
}
