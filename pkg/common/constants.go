package common

const (
	RedisStreamSentimentAnalyze = "sentiment.analyze"

	RedisStreamGroup    = "analyzer-group"
	RedisStreamConsumer = "analyzer-consumer"

	// RedisStreamPayloadField holds the JSON request in each stream message.
	RedisStreamPayloadField = "payload"
)
