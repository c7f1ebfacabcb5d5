package domain

const (
	CredentialMask     = "*****MASK*****"
	credentialFieldKey = "credential_field"
)

// CredentialPaths walks connection_specification and returns the dotted paths of every property
// flagged as a credential field.
func (spec DefinitionSpec) CredentialPaths() map[string]struct{} {
	paths := make(map[string]struct{})

	connectionSpec, ok := spec["connection_specification"].(map[string]interface{})
	if !ok {
		return paths
	}

	collectCredentialPaths(connectionSpec, "", paths)

	return paths
}

func collectCredentialPaths(schema map[string]interface{}, prefix string, paths map[string]struct{}) {
	properties, ok := schema["properties"].(map[string]interface{})
	if !ok {
		return
	}

	for name, raw := range properties {
		property, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		path := prefix + name
		if flagged, _ := property[credentialFieldKey].(bool); flagged {
			paths[path] = struct{}{}
		}

		collectCredentialPaths(property, path+".", paths)
	}
}

// MaskCredentials returns a copy of the configuration with every credential value replaced by
// CredentialMask
func (c Configuration) MaskCredentials(paths map[string]struct{}) Configuration {
	if c == nil {
		return nil
	}
	return Configuration(maskConfiguration(c, "", paths))
}

func maskConfiguration(config map[string]interface{}, prefix string, paths map[string]struct{}) map[string]interface{} {
	masked := make(map[string]interface{}, len(config))

	for k, v := range config {
		key := prefix + k
		if _, isCredential := paths[key]; isCredential {
			masked[k] = CredentialMask
			continue
		}

		if nested, ok := v.(map[string]interface{}); ok {
			masked[k] = maskConfiguration(nested, key+".", paths)
			continue
		}

		masked[k] = v
	}

	return masked
}

// RestoreMaskedCredentials returns a copy of the configuration where credential values still
// holding the mask are replaced with the value from stored.  A masked value with nothing stored
// is dropped.
func (c Configuration) RestoreMaskedCredentials(stored Configuration, paths map[string]struct{}) Configuration {
	if c == nil {
		return nil
	}
	return Configuration(restoreConfiguration(c, stored, "", paths))
}

func restoreConfiguration(config map[string]interface{}, stored map[string]interface{}, prefix string, paths map[string]struct{}) map[string]interface{} {
	restored := make(map[string]interface{}, len(config))

	for k, v := range config {
		key := prefix + k

		if _, isCredential := paths[key]; isCredential {
			if s, ok := v.(string); ok && s == CredentialMask {
				if previous, found := stored[k]; found {
					restored[k] = previous
				}
				continue
			}
		}

		if nested, ok := v.(map[string]interface{}); ok {
			storedNested, _ := stored[k].(map[string]interface{})
			restored[k] = restoreConfiguration(nested, storedNested, key+".", paths)
			continue
		}

		restored[k] = v
	}

	return restored
}
