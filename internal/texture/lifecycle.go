package texture

// BeginRegistration starts a new asset-load epoch. Images not touched
// before the next FreeUnused are reclaimed.
func (m *Manager) BeginRegistration() uint32 {
	m.epoch++
	if m.epoch == 0 {
		m.epoch = 1
	}
	return m.epoch
}

// FreeUnused releases every image not touched in the current epoch,
// except permanent and scrap-packed ones. It returns the number freed.
func (m *Manager) FreeUnused() int {
	count := 0
	for h := Handle(1); int(h) < m.numImages; h++ {
		img := &m.slots[h]
		switch {
		case img.Registration == m.epoch:
			continue
		case !img.inUse():
			continue
		case img.Flags&(Permanent|Scrap) != 0:
			continue
		}
		m.unlink(h)
		m.release(h)
		count++
	}
	if count > 0 {
		m.logger.Debug("freed unused images", "count", count, "epoch", m.epoch)
	}
	return count
}

// FreeAll releases every image regardless of flags, resets the uploader
// and leaves only the placeholder slot.
func (m *Manager) FreeAll() int {
	count := 0
	for h := Handle(1); int(h) < m.numImages; h++ {
		if !m.slots[h].inUse() {
			continue
		}
		m.release(h)
		count++
	}
	m.uploader.Reset()
	if count > 0 {
		m.logger.Debug("freed all images", "count", count)
	}
	if m.numImages > 0 {
		m.reset()
	}
	return count
}
