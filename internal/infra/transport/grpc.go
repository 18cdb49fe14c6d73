package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/keleris32/relay/internal/core/domain"
)

// executeMethod is the generic command endpoint exposed by the backend
// gateway service.
const executeMethod = "/relay.Gateway/Execute"

// GRPCTransport sends commands over a single gRPC connection using
// struct-typed payloads, so no generated client is required.
type GRPCTransport struct {
	endpoint string
	conn     *grpc.ClientConn
}

// NewGRPCTransport dials the backend gateway.
func NewGRPCTransport(ctx context.Context, endpoint string) (*GRPCTransport, error) {
	target := endpoint
	var opts []grpc.DialOption

	if strings.HasPrefix(endpoint, "grpcs://") || strings.HasSuffix(endpoint, ":443") {
		creds := credentials.NewTLS(&tls.Config{})
		opts = append(opts, grpc.WithTransportCredentials(creds))
		target = strings.TrimPrefix(target, "grpcs://")
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
		target = strings.TrimPrefix(target, "grpc://")
	}

	opts = append(opts, grpc.WithBlock()) // Wait for connection

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, err := grpc.DialContext(dialCtx, target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial grpc endpoint %s: %w", target, err)
	}

	return &GRPCTransport{endpoint: endpoint, conn: conn}, nil
}

// Send invokes the generic Execute method with the prepared parameters.
func (t *GRPCTransport) Send(
	ctx context.Context,
	command string,
	params map[string]any,
	method string,
	secure bool,
) (*domain.Response, error) {
	payload := map[string]any{
		"command": command,
		"type":    method,
		"secure":  secure,
	}
	for k, v := range params {
		payload[k] = v
	}

	in, err := structpb.NewStruct(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	out := &structpb.Struct{}
	if err := t.conn.Invoke(ctx, executeMethod, in, out); err != nil {
		return nil, mapGRPCError(err)
	}

	return domain.NewResponse(out.AsMap()), nil
}

// Close tears down the connection.
func (t *GRPCTransport) Close() error {
	return t.conn.Close()
}

// mapGRPCError folds gRPC status codes into the classifier vocabulary.
func mapGRPCError(err error) *Error {
	st, ok := status.FromError(err)
	if !ok {
		return &Error{Message: err.Error()}
	}
	switch st.Code() {
	case codes.Canceled:
		return &Error{Message: MsgDocumentLoadAborted, Name: NameAborted}
	case codes.Unavailable, codes.DeadlineExceeded:
		return &Error{Message: MsgFailedToFetch}
	default:
		return &Error{Message: st.Message()}
	}
}
