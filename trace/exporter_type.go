// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"errors"
	"fmt"
	"strings"
)

const (
	NoOp ExporterType = iota
	GRPC
	HTTP
)

var (
	errUnknownExporterType = errors.New("unknown exporter type")
	errInvalidFormat       = errors.New("invalid format")
)

// ExporterTypeFromString parses the name of an exporter. The empty string
// and "null" select NoOp.
func ExporterTypeFromString(exporterTypeStr string) (ExporterType, error) {
	switch strings.ToLower(exporterTypeStr) {
	case NoOp.String(), "null":
		return NoOp, nil
	case GRPC.String():
		return GRPC, nil
	case HTTP.String():
		return HTTP, nil
	default:
		return NoOp, fmt.Errorf("%w: %q", errUnknownExporterType, exporterTypeStr)
	}
}

// ExporterType is the OTLP protocol spans are exported over.
type ExporterType byte

func (t ExporterType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *ExporterType) UnmarshalJSON(b []byte) error {
	str := string(b)
	if len(str) < 2 || str[0] != '"' || str[len(str)-1] != '"' {
		return errInvalidFormat
	}
	exporterType, err := ExporterTypeFromString(str[1 : len(str)-1])
	if err != nil {
		return err
	}
	*t = exporterType
	return nil
}

func (t ExporterType) String() string {
	switch t {
	case NoOp:
		return ""
	case GRPC:
		return "grpc"
	case HTTP:
		return "http"
	default:
		return "unknown"
	}
}
