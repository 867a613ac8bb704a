package events

// Subscriber is the consuming side of the event bus. The watch command
// follows board changes through this contract.
type Subscriber interface {
	// Subscribe delivers raw event payloads on the returned channel.
	// The cancel function unsubscribes and closes the channel.
	Subscribe(topic string) (<-chan []byte, func(), error)

	Close() error
}
