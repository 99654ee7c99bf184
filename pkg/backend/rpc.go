package backend

import (
	"context"
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

// BackendRPC implements the go-plugin Plugin interface for device backends.
type BackendRPC struct {
	plugin.Plugin
	Impl Backend
}

// Server returns an RPC server for this plugin.
func (p *BackendRPC) Server(*plugin.MuxBroker) (any, error) {
	return &BackendRPCServer{Impl: p.Impl}, nil
}

// Client returns an RPC client for this plugin.
func (p *BackendRPC) Client(_ *plugin.MuxBroker, c *rpc.Client) (any, error) {
	return &BackendRPCClient{client: c}, nil
}

// DevicesResponse carries the result of Devices.
type DevicesResponse struct {
	Devices []Device
	Error   string
}

// CapabilitiesResponse carries the result of Capabilities.
type CapabilitiesResponse struct {
	Capabilities []string
	Error        string
}

// ApplyArgs are the arguments of Apply.
type ApplyArgs struct {
	DeviceID string
	Effect   EffectRequest
}

// BackendRPCServer is the RPC server implementation for backends.
// Backend errors travel in the response so the host can tell them apart
// from transport failures.
type BackendRPCServer struct {
	Impl Backend
}

// Devices implements the RPC method for listing devices.
func (s *BackendRPCServer) Devices(_ any, resp *DevicesResponse) error {
	devices, err := s.Impl.Devices(context.Background())
	resp.Devices = devices
	if err != nil {
		resp.Error = err.Error()
	}
	return nil
}

// Capabilities implements the RPC method for capability queries.
func (s *BackendRPCServer) Capabilities(deviceID string, resp *CapabilitiesResponse) error {
	caps, err := s.Impl.Capabilities(context.Background(), deviceID)
	resp.Capabilities = caps
	if err != nil {
		resp.Error = err.Error()
	}
	return nil
}

// Apply implements the RPC method for setting an effect.
func (s *BackendRPCServer) Apply(args ApplyArgs, resp *string) error {
	if err := s.Impl.Apply(context.Background(), args.DeviceID, args.Effect); err != nil {
		*resp = err.Error()
	}
	return nil
}

// SetSyncEffects implements the RPC method for toggling effect sync.
func (s *BackendRPCServer) SetSyncEffects(enabled bool, resp *string) error {
	if err := s.Impl.SetSyncEffects(context.Background(), enabled); err != nil {
		*resp = err.Error()
	}
	return nil
}

// GetMetadata implements the RPC method for fetching backend metadata.
func (s *BackendRPCServer) GetMetadata(_ any, resp *Info) error {
	*resp = s.Impl.GetMetadata()
	return nil
}

// BackendRPCClient is the RPC client implementation for backends.
// It satisfies Backend so the host can treat local and remote backends alike.
type BackendRPCClient struct {
	client *rpc.Client
}

// Devices calls the remote Devices method.
func (c *BackendRPCClient) Devices(_ context.Context) ([]Device, error) {
	var resp DevicesResponse
	if err := c.client.Call("Plugin.Devices", new(any), &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &RPCError{Message: resp.Error}
	}
	return resp.Devices, nil
}

// Capabilities calls the remote Capabilities method.
func (c *BackendRPCClient) Capabilities(_ context.Context, deviceID string) ([]string, error) {
	var resp CapabilitiesResponse
	if err := c.client.Call("Plugin.Capabilities", deviceID, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &RPCError{Message: resp.Error}
	}
	return resp.Capabilities, nil
}

// Apply calls the remote Apply method.
func (c *BackendRPCClient) Apply(_ context.Context, deviceID string, req EffectRequest) error {
	var errMsg string
	if err := c.client.Call("Plugin.Apply", ApplyArgs{DeviceID: deviceID, Effect: req}, &errMsg); err != nil {
		return err
	}
	if errMsg != "" {
		return &RPCError{Message: errMsg}
	}
	return nil
}

// SetSyncEffects calls the remote SetSyncEffects method.
func (c *BackendRPCClient) SetSyncEffects(_ context.Context, enabled bool) error {
	var errMsg string
	if err := c.client.Call("Plugin.SetSyncEffects", enabled, &errMsg); err != nil {
		return err
	}
	if errMsg != "" {
		return &RPCError{Message: errMsg}
	}
	return nil
}

// GetMetadata calls the remote GetMetadata method.
func (c *BackendRPCClient) GetMetadata() Info {
	var info Info
	if err := c.client.Call("Plugin.GetMetadata", new(any), &info); err != nil {
		return Info{}
	}
	return info
}

// RPCError represents an error returned by a backend over RPC.
type RPCError struct {
	Message string
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	return e.Message
}
