package models

import "time"

type User struct {
	ID               string    `bson:"_id" json:"id"`
	DisplayName      string    `bson:"display_name" json:"display_name"`
	PhotoURL         string    `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Coins            int64     `bson:"coins" json:"coins"`
	ReferralsCount   int64     `bson:"referrals_count" json:"referrals_count"`
	SavedOffersCount int64     `bson:"saved_offers_count" json:"saved_offers_count"`
	MeanRating       float64   `bson:"mean_rating" json:"mean_rating"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}
