package validators

import "go.mongodb.org/mongo-driver/bson"

var MeetingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"access_code",
			"title",
			"start_date",
			"end_date",
			"organizer_full_name",
			"organizer_email",
			"room_id",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"access_code": bson.M{
				"bsonType": "string",
				"pattern":  "^[A-Z0-9]{12}$",
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},

			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 2000,
			},

			"start_date": bson.M{
				"bsonType": "date",
			},

			"end_date": bson.M{
				"bsonType": "date",
			},

			"attendees": bson.M{
				"bsonType": bson.A{"array", "null"},
				"maxItems": 500,
				"items":    bson.M{"bsonType": "string"},
			},

			"organizer_full_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},

			"organizer_email": bson.M{
				"bsonType": "string",
			},

			"room_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"status": bson.M{
				"enum": []string{"scheduled", "cancelled", "completed"},
			},

			"is_organizer_privileged": bson.M{
				"bsonType": "bool",
			},

			"cancelled_reason": bson.M{"bsonType": "string"},
			"cancelled_by":     bson.M{"bsonType": "string"},
			"cancelled_at":     bson.M{"bsonType": "date"},
			"completed_at":     bson.M{"bsonType": "date"},
			"created_at":       bson.M{"bsonType": "date"},
			"updated_at":       bson.M{"bsonType": "date"},
		},
	},
}
