package cellaudio

// AddData validates a request to add samples to a started port.
//
// The samples are not mixed: producers write into the port ring with
// WriteBlock instead.
func (s *System) AddData(i int, src []float32, samples int, volume float32) error {
	if err := s.checkRunning(i); err != nil {
		return err
	}
	s.log.Warn("AddData not connected to the mix", "port", i, "samples", samples, "volume", volume)
	return nil
}

// Add2chData is AddData for a stereo source.
func (s *System) Add2chData(i int, src []float32, samples int, volume float32) error {
	if err := s.checkRunning(i); err != nil {
		return err
	}
	s.log.Warn("Add2chData not connected to the mix", "port", i, "samples", samples, "volume", volume)
	return nil
}

// Add6chData is AddData for one block of 5.1 source.
func (s *System) Add6chData(i int, src []float32, volume float32) error {
	if err := s.checkRunning(i); err != nil {
		return err
	}
	s.log.Warn("Add6chData not connected to the mix", "port", i, "volume", volume)
	return nil
}

func (s *System) checkRunning(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.live()
	if err != nil {
		return err
	}
	p, err := sess.ports.Port(i)
	if err != nil {
		return code(err)
	}
	switch {
	case !p.Opened:
		return ErrPortNotOpen
	case !p.Started:
		return ErrPortNotRun
	}
	return nil
}

func (s *System) MiscSetAccessoryVolume(dev uint32, volume float32) error {
	s.log.Debug("MiscSetAccessoryVolume ignored", "dev", dev, "volume", volume)
	return nil
}

func (s *System) SendAck(data3 uint64) error {
	s.log.Debug("SendAck ignored", "data3", data3)
	return nil
}

func (s *System) SetPersonalDevice(stream, device int) error {
	s.log.Debug("SetPersonalDevice ignored", "stream", stream, "device", device)
	return nil
}

func (s *System) UnsetPersonalDevice(stream int) error {
	s.log.Debug("UnsetPersonalDevice ignored", "stream", stream)
	return nil
}
