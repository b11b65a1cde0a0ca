package config

// schemaJSON guards the raw document shape before it is overlaid on defaults
// Unknown keys are rejected so misspelled tunables fail loudly
const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "definitions": {
    "range": {
      "type": "object",
      "additionalProperties": false,
      "required": ["min", "max"],
      "properties": {
        "min": {"type": "number"},
        "max": {"type": "number"}
      }
    },
    "intRange": {
      "type": "object",
      "additionalProperties": false,
      "required": ["min", "max"],
      "properties": {
        "min": {"type": "integer", "minimum": 1},
        "max": {"type": "integer", "minimum": 1}
      }
    },
    "phaseFraction": {"type": "number", "exclusiveMinimum": 0, "maximum": 0.5}
  },
  "properties": {
    "tick_rate": {"type": "integer", "minimum": 1, "maximum": 1000},
    "base_cycle_duration_ticks": {"type": "integer", "minimum": 1},
    "speed_factor_range": {"$ref": "#/definitions/range"},
    "arc_height_factor_range": {"$ref": "#/definitions/range"},
    "acceleration_phase_fraction": {"$ref": "#/definitions/phaseFraction"},
    "deceleration_phase_fraction": {"$ref": "#/definitions/phaseFraction"},
    "min_speed_multiplier": {"type": "number", "exclusiveMinimum": 0, "maximum": 1},
    "required_hits_range": {"$ref": "#/definitions/intRange"},
    "scale_threshold_table": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["hits", "scale"],
        "properties": {
          "hits": {"type": "integer", "minimum": 1},
          "scale": {"type": "number", "exclusiveMinimum": 0}
        }
      }
    },
    "slots_per_cell": {"type": "integer", "minimum": 1},
    "cell_radius": {"type": "number", "minimum": 0},
    "impact_linear_impulse_magnitude": {"type": "number", "minimum": 0},
    "impact_angular_impulse_magnitude": {"type": "number", "minimum": 0},
    "destroy_delay": {"type": "integer", "minimum": 0},
    "attach_bounce_delay": {"type": "integer", "minimum": 0}
  }
}`
