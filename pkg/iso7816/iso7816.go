/*
Package iso7816 implements data structures and logic to interact with smart cards according to the ISO/IEC 7816 standard.

This package provides the fundamental building blocks for APDU (Application Protocol Data Unit) communication: Command and Response structures, Status Word (SW) analysis, SELECT and READ RECORD builders, and a Client that hides the transport-level retries of T=0 cards.

# Fundamentals

The communication with a smart card is strictly synchronous:
 1. The Host sends a Command APDU (Header + Optional Body).
 2. The Card processes it and returns a Response APDU (Optional Body + Trailer SW1/SW2).

# Status Words

Every response ends with a 2-byte Status Word (SW).
  - 0x9000: Success (OK).
  - 0x61XX: Success, but response data is still available (XX bytes).
  - 0x6CXX: Error, wrong length expectation (XX is the correct length).
  - 0x6985: Conditions of use not satisfied (EMV: try the next application).
  - 0x6984: Referenced data invalidated (EMV contactless: use another interface).
  - Other: Various error conditions.

# Usage Example: Selecting an application

	client := iso7816.NewClient(card)

	cls, _ := iso7816.NewClass(0x00)
	trace, err := client.Send(iso7816.SelectByAID(cls, []byte("2PAY.SYS.DDF01")))
	if err != nil {
	    log.Fatal(err) // transport failure, errors.Is(err, iso7816.ErrTransmit)
	}

	// 1. The final transaction decides the outcome (61XX and 6CXX are already handled)
	if !trace.IsSuccess() {
	    log.Printf("selection failed: %s", trace.Status().Verbose())
	    return
	}

	// 2. Response data of the last GET RESPONSE (or of the command itself)
	fmt.Printf("FCI: %X\n", trace.Data())

	// 3. Generate a full human-readable report for debugging
	fmt.Println(iso7816.DescribeTrace(trace))
*/
package iso7816
