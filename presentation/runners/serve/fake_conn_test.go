package serve

import (
	"context"
	appnet "transit/application/network"
	"transit/domain/network/endpoint"
	"transit/domain/network/transport"
)

type fakeConn struct {
	transport transport.Transport
}

func (f fakeConn) ID() string { return "fake" }

func (f fakeConn) Transport() transport.Transport { return f.transport }

func (f fakeConn) RemoteEndpoint() endpoint.Endpoint { return endpoint.Endpoint{} }

func (f fakeConn) State() appnet.State { return appnet.StateReady }

func (f fakeConn) SetStateHandler(appnet.StateHandler) {}

func (f fakeConn) Start() error { return nil }

func (f fakeConn) Send([]byte, appnet.SendCompletion) {}

func (f fakeConn) Receive(int, int, appnet.ReceiveCompletion) {}

func (f fakeConn) SendContext(context.Context, []byte) error { return nil }

func (f fakeConn) ReceiveContext(context.Context, int, int) ([]byte, error) { return nil, nil }

func (f fakeConn) Close() error { return nil }
