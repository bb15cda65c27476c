package iso7816

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrTransmit marks failures of the physical exchange: the transmitter
// returned an error or the card answered with less than a status word.
var ErrTransmit = errors.New("card transmission failed")

// CLIENT & PROTOCOL LOGIC:
// The Client acts as a high-level driver over the physical connection.
// It implements the automatic handling of ISO 7816-3 transport behaviors that are
// often exposed to the application layer in T=0 protocols:
//
// 1. "61 XX" (Response Available):
//    The card indicates that XX bytes are waiting. The client automatically generates
//    and sends a GET RESPONSE command to retrieve them.
//
// 2. "6C XX" (Wrong Length):
//    The card indicates that the expected length (Le) was incorrect and suggests XX.
//    The client automatically re-sends the original command with Le = XX.
//
// The Send() method returns a Trace, which is a log of all atomic transactions
// occurred to fulfill the logical request.

// Transmitter abstracts the physical card connection.
// *scard.Card satisfies it.
type Transmitter interface {
	Transmit(cmd []byte) ([]byte, error)
}

// MaxAutoResponses bounds the number of GET RESPONSE / re-send round trips
// the client performs for a single command.
const MaxAutoResponses = 16

// Client manages the high-level communication with the card.
type Client struct {
	Card   Transmitter
	Logger *slog.Logger
}

// NewClient creates a new Client instance.
func NewClient(card Transmitter) *Client {
	return &Client{Card: card}
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Send transmits a command and handles protocol logic (61xx, 6Cxx).
// Transmission failures are wrapped with ErrTransmit.
func (c *Client) Send(cmd *CommandAPDU) (Trace, error) {
	return c.send(cmd, 0)
}

func (c *Client) send(cmd *CommandAPDU, depth int) (Trace, error) {
	if depth > MaxAutoResponses {
		return nil, fmt.Errorf("%s: more than %d chained responses", cmd.Instruction.Raw, MaxAutoResponses)
	}

	rawCmd, err := cmd.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encoding error: %w", err)
	}

	rawResp, err := c.Card.Transmit(rawCmd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransmit, err)
	}

	resp, err := ParseResponseAPDU(rawResp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransmit, err)
	}

	c.logger().Debug("apdu",
		"ins", cmd.Instruction.Raw.String(),
		"c-apdu", fmt.Sprintf("%X", rawCmd),
		"r-apdu", fmt.Sprintf("%X", resp.Data),
		"sw", fmt.Sprintf("%04X", uint16(resp.Status)),
	)

	currentTx := Transaction{
		Command:  cmd,
		Response: resp,
	}

	trace := Trace{currentTx}

	sw1 := resp.Status.SW1()
	sw2 := resp.Status.SW2()

	// Case 61XX: More data available -> Issue GET RESPONSE
	if sw1 == 0x61 {
		// ISO 7816-4: GET RESPONSE must use the same logical channel as the original command.
		respCls := cmd.Class
		respCls.IsChained = false

		ins, _ := NewInstruction(INS_GET_RESPONSE)

		// Le = sw2 (number of bytes available)
		getRespCmd := NewCommandAPDU(respCls, ins, 0x00, 0x00, nil, int(sw2))

		subTrace, err := c.send(getRespCmd, depth+1)
		if err != nil {
			return trace, err
		}

		trace = append(trace, subTrace...)
		return trace, nil
	}

	// Case 6CXX: Wrong Length -> Re-issue original command with correct Le
	if sw1 == 0x6C {
		// Clone command to update Le without mutating the original pointer
		newCmd := *cmd
		newCmd.Ne = int(sw2)

		subTrace, err := c.send(&newCmd, depth+1)
		if err != nil {
			return trace, err
		}

		trace = append(trace, subTrace...)
		return trace, nil
	}

	return trace, nil
}
