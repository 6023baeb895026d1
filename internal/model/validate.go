package model

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// snapshotSchema validates export/import documents. Every key is
// optional — an import may carry any subset of the snapshot — but a key
// that is present must have the right shape.
const snapshotSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "experiences": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "role", "company"],
        "properties": {
          "id": {"type": "string"},
          "role": {"type": "string"},
          "company": {"type": "string"},
          "period": {"type": "string"},
          "description": {"type": "string"}
        }
      }
    },
    "education": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "degree", "institution"],
        "properties": {
          "id": {"type": "string"},
          "degree": {"type": "string"},
          "institution": {"type": "string"},
          "year": {"type": "string"}
        }
      }
    },
    "skills": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "level"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "level": {"type": "integer", "minimum": 0, "maximum": 100}
        }
      }
    },
    "logos": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "title", "imageUrl"],
        "properties": {
          "id": {"type": "string"},
          "title": {"type": "string"},
          "imageUrl": {"type": "string"},
          "date": {"type": "string"},
          "link": {"type": "string"}
        }
      }
    },
    "brands": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name"],
        "properties": {
          "id": {"type": "string"},
          "name": {"type": "string"},
          "logo": {"type": "string"}
        }
      }
    },
    "socials": {
      "type": "object",
      "properties": {
        "instagram": {"type": "string"},
        "youtube": {"type": "string"},
        "linkedin": {"type": "string"},
        "email": {"type": "string"}
      }
    },
    "heroContent": {
      "type": "object",
      "properties": {
        "title": {"type": "string"},
        "name": {"type": "string"},
        "description": {"type": "string"},
        "profilePhoto": {"type": "string"},
        "backgroundType": {"type": "string", "enum": ["gradient", "image", ""]},
        "gradientFrom": {"type": "string"},
        "gradientVia": {"type": "string"},
        "gradientTo": {"type": "string"},
        "backgroundImage": {"type": "string"}
      }
    },
    "whatsapp": {"type": "string"},
    "pdfData": {"type": "string"},
    "exportedAt": {"type": "string"}
  }
}`

// ValidateImport checks an import document against the snapshot schema.
func ValidateImport(doc []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(snapshotSchema)
	docLoader := gojsonschema.NewBytesLoader(doc)

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := ""
	for _, e := range res.Errors() {
		msgs += fmt.Sprintf("%s; ", e.String())
	}
	return fmt.Errorf("schema validation failed: %s", msgs)
}
