package agent

import (
	"context"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// listenBroadcastUDP opens a UDP socket with SO_BROADCAST set, the same
// socket option the reference agent sets explicitly on its notification
// socket before every broadcast send.
func listenBroadcastUDP(addr string) (*net.UDPConn, error) {
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}
	pc, err := lc.ListenPacket(context.Background(), "udp4", addr)
	if err != nil {
		return nil, err
	}
	return pc.(*net.UDPConn), nil
}
