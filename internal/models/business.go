package models

// Business records are seeded by an external catalog and read-only to this
// service. Discount is a fixed promotional string, copied onto a
// recommendation at creation time rather than referenced live.
type Business struct {
	ID          string   `bson:"_id" json:"id" yaml:"id"`
	Name        string   `bson:"name" json:"name" yaml:"name"`
	Category    string   `bson:"category" json:"category" yaml:"category"`
	Description string   `bson:"description" json:"description" yaml:"description"`
	Address     string   `bson:"address" json:"address" yaml:"address"`
	Phone       string   `bson:"phone,omitempty" json:"phone,omitempty" yaml:"phone"`
	Email       string   `bson:"email,omitempty" json:"email,omitempty" yaml:"email"`
	Website     string   `bson:"website,omitempty" json:"website,omitempty" yaml:"website"`
	Images      []string `bson:"images,omitempty" json:"images,omitempty" yaml:"images"`
	Discount    string   `bson:"discount" json:"discount" yaml:"discount"`
}
