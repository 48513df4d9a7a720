package kafka

// TopicPrefix namespaces every topic this service writes to.
const TopicPrefix = "forique"

// Topic returns the topic events of eventType are published on. Each event
// type has its own topic, e.g. "cart.updated" goes to "forique.cart.updated".
func Topic(eventType string) string {
	return TopicPrefix + "." + eventType
}
