package chain

// Validate checks that the raw payload has every required key and a usable
// participants list. It does not look at values beyond their shape.
func Validate(raw map[string]interface{}) error {
	for _, key := range requiredFields {
		if _, ok := raw[key]; !ok {
			return newValidationError(MissingField, key)
		}
	}

	participants, ok := raw[fieldParticipants].([]interface{})
	if !ok || len(participants) == 0 {
		return newValidationError(InvalidParticipants, fieldParticipants)
	}

	entries := make([]map[string]interface{}, 0, len(participants))
	for _, p := range participants {
		entry, ok := p.(map[string]interface{})
		if !ok {
			return newValidationError(InvalidParticipants, fieldParticipants)
		}
		entries = append(entries, entry)
	}

	// first offending participant, then its first missing field
	for _, entry := range entries {
		for _, field := range participantFields {
			if _, ok := entry[field]; !ok {
				return newValidationError(MissingParticipantField, field)
			}
		}
	}

	return nil
}
