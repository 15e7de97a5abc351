package classify

import "digest_server/core/domain"

// Aggregate partitions records by topic. The inputs are parallel slices, one
// topic per record. Within a group the member order matches the input order;
// the groups themselves come out in first-observed-topic order. Topics with
// zero members produce no group, so the result is an exact partition of the
// input records.
func Aggregate(records []*domain.EmailContent, topics []domain.Topic) []*domain.TopicGroup {
	var groups []*domain.TopicGroup
	index := make(map[domain.Topic]*domain.TopicGroup, len(domain.AllTopics))

	for i, rec := range records {
		if i >= len(topics) {
			break
		}
		topic := topics[i]

		group, ok := index[topic]
		if !ok {
			group = &domain.TopicGroup{Topic: topic}
			index[topic] = group
			groups = append(groups, group)
		}
		group.Members = append(group.Members, rec)
	}

	return groups
}
