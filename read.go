package anyio

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/NamanBalaji/anyio/internal/errors"
)

// ReadBytes reads the locator's full decompressed content.
func ReadBytes(locator string, opts ...Option) ([]byte, error) {
	r, err := Open(locator, opts...)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO(err, locator)
	}

	return b, nil
}

// ReadString reads the locator's full decompressed content as a string.
func ReadString(locator string, opts ...Option) (string, error) {
	b, err := ReadBytes(locator, opts...)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// ReadLines reads the locator's decompressed content split into lines,
// without trailing newlines.
func ReadLines(locator string, opts ...Option) ([]string, error) {
	r, err := Open(locator, opts...)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var lines []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapIO(err, locator)
	}

	return lines, nil
}

// ReadJSON decodes the locator's decompressed content into v.
func ReadJSON(locator string, v any, opts ...Option) error {
	r, err := Open(locator, opts...)
	if err != nil {
		return err
	}
	defer r.Close()

	// The decoder surfaces the read error it got, so a transport failure
	// keeps its Network kind while a malformed document reads as IO.
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return errors.WrapIO(err, locator)
	}

	return nil
}
