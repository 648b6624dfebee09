// Copyright 2026 The HP3478x Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ext

import "github.com/gpib-tools/hp3478x/devices/hp3478a"

// pollSRQ serial-polls the instrument for its status byte, the GPIB
// primitive "SRQ handling" builds on.
func (c *Context) pollSRQ() (byte, error) {
	return c.Device.GetSRQStatus()
}

// handlePowerOnReset reapplies the persisted initial mode (if any) and
// re-enters INIT: PWRSRQ bit set means the instrument was reset, and
// reinitialization must happen within one iteration.
func (c *Context) handlePowerOnReset() (Mode, int32) {
	if c.persistedInitialMode != nil {
		_ = c.Device.SetMode(*c.persistedInitialMode)
	}
	c.initFailures = 0
	return ModeInit, 0
}

// dispatchUniversalSRQ centrally decodes the PWRSRQ and FRPSRQ bits for
// every mode handler that serial-polls on SRQ (all except INIT):
// PWRSRQ always means "reinitialise"; FRPSRQ is "the user wants
// something" and its effect (open the menu, exit the current mode, or
// cycle a display) is mode-dependent, so this only recognises the bit and
// leaves the decision to the caller.
func (c *Context) dispatchUniversalSRQ() (sb byte, pwrsrq, frpsrq bool, err error) {
	sb, err = c.pollSRQ()
	if err != nil {
		return 0, false, false, err
	}
	return sb, sb&hp3478a.StatusPWRSRQ != 0, sb&hp3478a.StatusFRPSRQ != 0, nil
}
