package envfile

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// File formats the loader understands
const (
	formatDotEnv        = "env"
	formatExports       = "exports"
	formatDockerCompose = "docker-compose"
	formatK8s           = "k8s"
	formatSystemd       = "systemd"
)

var (
	exportRegex  = regexp.MustCompile(`^\s*export\s+([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.*)$`)
	systemdRegex = regexp.MustCompile(`^\s*Environment\s*=\s*(.+)$`)
)

// detectFileType picks a parser from the file name
func detectFileType(path string) string {
	name := filepath.Base(path)

	switch {
	case name == ".envrc",
		strings.HasSuffix(name, ".sh"),
		strings.HasSuffix(name, ".bash"):
		return formatExports
	case strings.HasPrefix(name, ".env"):
		return formatDotEnv
	case strings.HasPrefix(name, "docker-compose.") || strings.HasPrefix(name, "compose."):
		return formatDockerCompose
	case strings.HasSuffix(name, ".service"):
		return formatSystemd
	case strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml"):
		if strings.Contains(name, "configmap") || strings.Contains(name, "secret") {
			return formatK8s
		}
	}

	return formatDotEnv
}

// parseEnvFile reads path with the parser matching its format.
// A file that does not exist yields an empty map.
func parseEnvFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	switch detectFileType(path) {
	case formatExports:
		return parseExports(bytes.NewReader(data))
	case formatDockerCompose:
		return parseDockerCompose(bytes.NewReader(data))
	case formatK8s:
		return parseK8s(bytes.NewReader(data))
	case formatSystemd:
		return parseSystemd(bytes.NewReader(data))
	default:
		return parseDotEnv(data)
	}
}

// parseDotEnv parses KEY=VALUE content with godotenv. When godotenv
// rejects the content, the lines it cannot read are dropped and the rest is
// parsed again, so one bad line never changes the values of the others.
func parseDotEnv(data []byte) (map[string]string, error) {
	vars, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		vars, err = parseDotEnvLenient(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
	}
	delete(vars, "")
	return vars, nil
}

func parseDotEnvLenient(r io.Reader) (map[string]string, error) {
	var valid bytes.Buffer
	perLine := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		lineVars, err := godotenv.Unmarshal(line)
		if err != nil {
			continue
		}
		for k, v := range lineVars {
			perLine[k] = v
		}
		valid.WriteString(line)
		valid.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading env file: %w", err)
	}

	// parsed together so ${VAR} references between valid lines still expand
	if vars, err := godotenv.Parse(&valid); err == nil {
		return vars, nil
	}
	return perLine, nil
}

// parseExports parses direnv .envrc files and shell scripts (export VAR=value)
func parseExports(r io.Reader) (map[string]string, error) {
	vars := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if m := exportRegex.FindStringSubmatch(line); len(m) == 3 {
			vars[m[1]] = trimQuotes(m[2])
		}
	}
	return vars, scanner.Err()
}

// parseSystemd parses Environment= lines of a systemd unit
func parseSystemd(r io.Reader) (map[string]string, error) {
	vars := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		m := systemdRegex.FindStringSubmatch(line)
		if len(m) != 2 {
			continue
		}
		key, value, ok := strings.Cut(trimQuotes(m[1]), "=")
		if !ok {
			continue
		}
		if key = strings.TrimSpace(key); key != "" {
			vars[key] = strings.TrimSpace(value)
		}
	}
	return vars, scanner.Err()
}

type composeFile struct {
	Services map[string]struct {
		Environment yaml.Node `yaml:"environment"`
	} `yaml:"services"`
}

// parseDockerCompose collects services.*.environment in both map and list form.
// Invalid YAML is skipped silently.
func parseDockerCompose(r io.Reader) (map[string]string, error) {
	vars := make(map[string]string)

	var compose composeFile
	if err := yaml.NewDecoder(r).Decode(&compose); err != nil {
		return vars, nil
	}

	for _, service := range compose.Services {
		env := service.Environment
		switch env.Kind {
		case yaml.MappingNode:
			var m map[string]any
			if err := env.Decode(&m); err == nil {
				for k, v := range m {
					vars[k] = scalarString(v)
				}
			}
		case yaml.SequenceNode:
			var list []string
			if err := env.Decode(&list); err == nil {
				for _, item := range list {
					if k, v, ok := strings.Cut(item, "="); ok {
						vars[strings.TrimSpace(k)] = strings.TrimSpace(v)
					}
				}
			}
		}
	}
	return vars, nil
}

type k8sObject struct {
	Kind       string         `yaml:"kind"`
	Data       map[string]any `yaml:"data"`
	StringData map[string]any `yaml:"stringData"`
}

// parseK8s reads a ConfigMap or Secret. Secret data is base64 encoded.
func parseK8s(r io.Reader) (map[string]string, error) {
	vars := make(map[string]string)

	var obj k8sObject
	if err := yaml.NewDecoder(r).Decode(&obj); err != nil {
		return vars, nil
	}

	switch obj.Kind {
	case "ConfigMap":
		for k, v := range obj.Data {
			vars[k] = scalarString(v)
		}
	case "Secret":
		for k, v := range obj.Data {
			raw := scalarString(v)
			if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
				vars[k] = string(decoded)
			} else {
				vars[k] = raw
			}
		}
		for k, v := range obj.StringData {
			vars[k] = scalarString(v)
		}
	}
	return vars, nil
}

// scalarString renders a decoded YAML scalar; null becomes ""
func scalarString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

// trimQuotes removes one pair of surrounding quotes
func trimQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'' || first == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
