// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"context"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/diem/client-sdk-go/utils/constants"
	"github.com/diem/client-sdk-go/utils/rpc/rpcmock"
)

type recordingTracer struct {
	oteltrace.Tracer
}

func (recordingTracer) Close() error { return nil }

func newRecordingTracer() (recordingTracer, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return recordingTracer{Tracer: tp.Tracer("test")}, recorder
}

func spanAttributes(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	return attrs
}

func TestTracedClientRecordsSpans(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	transport := rpcmock.NewTransport(ctrl)
	tracer, recorder := newRecordingTracer()
	c := Trace(newTestClient(t, newTestConfig(transport)), "diem", tracer)

	gomock.InOrder(
		transport.EXPECT().PostJSON(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(http.StatusOK, rpcResponse(t, 7, 7, nil), nil),
		transport.EXPECT().PostJSON(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(http.StatusOK, rpcResponseOn(t, constants.MainnetID, 8, 8, &Metadata{}), nil),
	)

	account, err := c.GetAccount(context.Background(), testAddress)
	require.NoError(err)
	require.Nil(account)

	_, err = c.GetMetadata(context.Background())
	require.Equal(KindChainMismatch, KindOf(err))

	spans := recorder.Ended()
	require.Len(spans, 2)

	require.Equal("diem.getAccount", spans[0].Name())
	attrs := spanAttributes(spans[0])
	require.Equal(MethodGetAccount, attrs["method"].AsString())
	require.Equal(testAddress.String(), attrs["address"].AsString())
	require.Equal(int64(7), attrs["ledgerVersion"].AsInt64())
	require.NotContains(attrs, attribute.Key("errorKind"))
	require.Equal(codes.Unset, spans[0].Status().Code)

	require.Equal("diem.getMetadata", spans[1].Name())
	attrs = spanAttributes(spans[1])
	require.Equal(MethodGetMetadata, attrs["method"].AsString())
	require.Equal(int64(7), attrs["ledgerVersion"].AsInt64())
	require.Equal(KindChainMismatch.String(), attrs["errorKind"].AsString())
	require.Equal(codes.Error, spans[1].Status().Code)
}

func TestTracedClientLastLedgerState(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	transport := rpcmock.NewTransport(ctrl)
	tracer, recorder := newRecordingTracer()
	inner := newTestClient(t, newTestConfig(transport))
	c := Trace(inner, "diem", tracer)

	transport.EXPECT().PostJSON(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(http.StatusOK, rpcResponse(t, 3, 4, &Metadata{Version: 3}), nil)

	_, err := c.GetMetadata(context.Background())
	require.NoError(err)
	require.Equal(inner.LastLedgerState(), c.LastLedgerState())
	require.Equal(uint64(3), c.LastLedgerState().Version)
	require.Len(recorder.Ended(), 1)
}
