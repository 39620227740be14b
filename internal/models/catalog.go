package models

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
	Slug string `gorm:"type:varchar(50);uniqueIndex;not null" json:"slug"`
}

type Genre struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	Name string `gorm:"type:varchar(50);not null" json:"name"`
	Slug string `gorm:"type:varchar(50);uniqueIndex;not null" json:"slug"`
}

type Title struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(200);not null" json:"name"`
	Year        int    `gorm:"not null" json:"year"`
	Description string `gorm:"type:text" json:"description"`

	// A title belongs to at most one category. Deleting the category keeps
	// the title and clears the reference.
	CategoryID *uint     `gorm:"index" json:"-"`
	Category   *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category"`

	Genres []Genre `gorm:"many2many:title_genres;constraint:OnDelete:CASCADE" json:"genres"`
}
