package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Collection names
const (
	PostsCollection = "Posts"
	TagsCollection  = "Tags"
	VotesCollection = "Votes"
)

// Key prefixes for different entity types in the embedded store
const (
	PostKeyPrefix = "post:"
	TagKeyPrefix  = "tag:"
	VoteKeyPrefix = "vote:"
)

var collectionPrefixes = map[string]string{
	PostsCollection: PostKeyPrefix,
	TagsCollection:  TagKeyPrefix,
	VotesCollection: VoteKeyPrefix,
}

func entityKey(prefix, id string) []byte {
	return []byte(prefix + id)
}

// documentID reads the Id field of a raw document as a string.
func documentID(doc map[string]interface{}) (string, error) {
	switch v := doc["Id"].(type) {
	case string:
		if v == "" {
			return "", errors.New("document has an empty Id")
		}
		return v, nil
	case json.Number:
		return v.String(), nil
	case float64:
		return fmt.Sprintf("%.0f", v), nil
	case int, int32, int64:
		return fmt.Sprintf("%d", v), nil
	case nil:
		return "", errors.New("document has no Id")
	default:
		return "", fmt.Errorf("document Id has unsupported type %T", v)
	}
}

// marshalEntity marshals an entity to JSON
func marshalEntity(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %v", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %v", err)
	}
	return nil
}

// incrementField adds delta to a numeric field of a JSON document,
// keeping every other field as it was.
func incrementField(data []byte, field string, delta int) ([]byte, error) {
	var doc map[string]interface{}
	if err := unmarshalEntity(data, &doc); err != nil {
		return nil, err
	}
	current := 0.0
	switch v := doc[field].(type) {
	case float64:
		current = v
	case nil:
	default:
		return nil, fmt.Errorf("field %s is not numeric (%T)", field, v)
	}
	doc[field] = current + float64(delta)
	return marshalEntity(doc)
}
