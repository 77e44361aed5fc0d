package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/showcontroller/oscroute/osc"
)

// parseArgs converts command line words into OSC argument values.
func parseArgs(words []string) ([]any, error) {
	args := make([]any, 0, len(words))
	for _, word := range words {
		arg, err := parseArg(word)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", word, err)
		}
		args = append(args, arg)
	}
	return args, nil
}

// parseArg reads a single argument. A one letter prefix such as "i:" or "S:"
// forces the type, otherwise integers become int32, decimals float32 and
// anything else a string.
func parseArg(word string) (any, error) {
	switch word {
	case "T":
		return true, nil
	case "F":
		return false, nil
	case "N":
		return nil, nil
	case "I":
		return osc.Impulse{}, nil
	}

	if len(word) >= 2 && word[1] == ':' {
		value := word[2:]
		switch word[0] {
		case 'i':
			v, err := strconv.ParseInt(value, 0, 32)
			if err != nil {
				return nil, err
			}
			return int32(v), nil
		case 'h':
			v, err := strconv.ParseInt(value, 0, 64)
			if err != nil {
				return nil, err
			}
			return v, nil
		case 'f':
			v, err := strconv.ParseFloat(value, 32)
			if err != nil {
				return nil, err
			}
			return float32(v), nil
		case 'd':
			return strconv.ParseFloat(value, 64)
		case 's':
			return value, nil
		case 'S':
			return osc.Symbol(value), nil
		case 'c':
			r, size := utf8.DecodeRuneInString(value)
			if size == 0 || size != len(value) || r == utf8.RuneError {
				return nil, errors.New("want exactly one character")
			}
			return osc.Char(r), nil
		case 'b':
			return hex.DecodeString(strings.ReplaceAll(value, " ", ""))
		}
	}

	if v, err := strconv.ParseInt(word, 10, 32); err == nil {
		return int32(v), nil
	}
	if strings.ContainsAny(word, "0123456789") {
		if v, err := strconv.ParseFloat(word, 32); err == nil {
			return float32(v), nil
		}
	}
	return word, nil
}
