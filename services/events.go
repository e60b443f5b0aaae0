package services

// Publisher receives change notifications for the live feed.
type Publisher interface {
	Publish(topic, action string, id uint, data any)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, string, uint, any) {}

func publisherOrNop(p Publisher) Publisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}
