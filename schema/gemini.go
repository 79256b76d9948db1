package schema

import "encoding/json"

// ForeignResponseSchema is the Gemini responseSchema that constrains JSON-mode
// output to the foreign-press document shape.
var ForeignResponseSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "header": {
      "type": "object",
      "properties": {
        "title": {"type": "string"},
        "date": {"type": "string"},
        "subtitle": {"type": "string"}
      },
      "required": ["title"]
    },
    "summary": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "category": {"type": "string"},
          "articles": {
            "type": "array",
            "items": {
              "type": "object",
              "properties": {
                "title": {"type": "string"},
                "summary": {"type": "string", "nullable": true}
              },
              "required": ["title"]
            }
          }
        },
        "required": ["category", "articles"]
      }
    },
    "content": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "category": {"type": "string"},
          "articles": {
            "type": "array",
            "items": {
              "type": "object",
              "properties": {
                "title": {"type": "string"},
                "paragraphs": {
                  "type": "array",
                  "items": {
                    "type": "object",
                    "properties": {
                      "type": {"type": "string", "enum": ["text", "list", "quote"]},
                      "content": {"type": "string"},
                      "items": {"type": "array", "items": {"type": "string"}, "nullable": true}
                    },
                    "required": ["type", "content"]
                  }
                }
              },
              "required": ["title", "paragraphs"]
            }
          }
        },
        "required": ["category", "articles"]
      }
    },
    "metadata": {
      "type": "object",
      "properties": {
        "originalFileName": {"type": "string"},
        "processedAt": {"type": "string"},
        "model": {"type": "string"},
        "totalPages": {"type": "number", "nullable": true},
        "language": {"type": "string", "nullable": true}
      },
      "required": ["originalFileName", "processedAt", "model"]
    }
  },
  "required": ["header", "summary", "content", "metadata"]
}`)

// DomesticResponseSchema constrains JSON-mode output to the domestic policy
// document shape, including the editorials section.
var DomesticResponseSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "header": {
      "type": "object",
      "properties": {
        "title": {"type": "string"},
        "meta": {"type": "array", "items": {"type": "string"}}
      },
      "required": ["title", "meta"]
    },
    "summary": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "category": {"type": "string"},
          "items": {
            "type": "array",
            "items": {
              "type": "object",
              "properties": {
                "content": {"type": "string"}
              },
              "required": ["content"]
            }
          }
        },
        "required": ["category", "items"]
      }
    },
    "editorials": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "category": {"type": "string"},
          "content": {"type": "string"}
        },
        "required": ["category", "content"]
      }
    },
    "content": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "category": {"type": "string"},
          "articles": {
            "type": "array",
            "items": {
              "type": "object",
              "properties": {
                "title": {"type": "string"},
                "paragraphs": {
                  "type": "array",
                  "items": {
                    "type": "object",
                    "properties": {
                      "type": {"type": "string", "enum": ["text", "list", "quote"]},
                      "content": {"type": "string"},
                      "items": {"type": "array", "items": {"type": "string"}, "nullable": true}
                    },
                    "required": ["type", "content"]
                  }
                }
              },
              "required": ["title", "paragraphs"]
            }
          }
        },
        "required": ["category", "articles"]
      }
    },
    "metadata": {
      "type": "object",
      "properties": {
        "originalFileName": {"type": "string"},
        "processedAt": {"type": "string"},
        "model": {"type": "string"},
        "totalPages": {"type": "number", "nullable": true},
        "language": {"type": "string", "nullable": true}
      },
      "required": ["originalFileName", "processedAt", "model"]
    }
  },
  "required": ["header", "summary", "editorials", "content", "metadata"]
}`)
