package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Start requests the daemon to start its services.
func (c *Client) Start() (*StartResponse, error) {
	var resp StartResponse
	if err := c.client.Call("Conductor.Start", StartRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop requests the daemon to stop its services.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Conductor.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Conductor.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Submit enqueues a job through the daemon.
func (c *Client) Submit(req SubmitRequest) (*SubmitResponse, error) {
	var resp SubmitResponse
	if err := c.client.Call("Conductor.Submit", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// JobList returns the most recently created jobs.
func (c *Client) JobList(limit int) (*JobListResponse, error) {
	var resp JobListResponse
	if err := c.client.Call("Conductor.JobList", JobListRequest{Limit: limit}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// JobDescribe returns details for a single job.
func (c *Client) JobDescribe(id string) (*JobDescribeResponse, error) {
	var resp JobDescribeResponse
	if err := c.client.Call("Conductor.JobDescribe", JobDescribeRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// QueueClear discards queued entries from one band.
func (c *Client) QueueClear(band string) (*QueueClearResponse, error) {
	var resp QueueClearResponse
	if err := c.client.Call("Conductor.QueueClear", QueueClearRequest{Band: band}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WorkerList returns the live worker records.
func (c *Client) WorkerList() (*WorkerListResponse, error) {
	var resp WorkerListResponse
	if err := c.client.Call("Conductor.WorkerList", WorkerListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WorkerCommand delivers a command to a worker mailbox.
func (c *Client) WorkerCommand(worker, command string) (*WorkerCommandResponse, error) {
	var resp WorkerCommandResponse
	req := WorkerCommandRequest{Worker: worker, Command: command}
	if err := c.client.Call("Conductor.WorkerCommand", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification triggers a notification test via the daemon.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	var resp TestNotificationResponse
	if err := c.client.Call("Conductor.TestNotification", TestNotificationRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
