package rpc_test

import (
	"context"
	"net"
	"testing"
	"time"

	"parkwatch/internal/modules/stopwatch/adapter/out/rpc"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

type stubServer struct {
	seen chan int64
}

func (s stubServer) NavStart(_ context.Context, in *rpc.NavStartRequest) (*rpc.NavStartResponse, error) {
	s.seen <- in.RequestedAtUnixMS
	return &rpc.NavStartResponse{Accepted: false, Message: "refused: e-stop engaged"}, nil
}

func TestNavStartRoundTripOverJSONCodec(t *testing.T) {
	t.Parallel()
	lis := bufconn.Listen(1 << 16)
	server := grpc.NewServer()
	stub := stubServer{seen: make(chan int64, 1)}
	rpc.RegisterCommanderServer(server, stub)
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := rpc.NewCommanderClient(conn).NavStart(ctx, &rpc.NavStartRequest{RequestedAtUnixMS: 1234})
	if err != nil {
		t.Fatalf("nav start: %v", err)
	}
	if resp.Accepted || resp.Message != "refused: e-stop engaged" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if got := <-stub.seen; got != 1234 {
		t.Fatalf("request payload lost, got %d", got)
	}
}
