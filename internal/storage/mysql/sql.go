package mysql

// -----------------------------------------------------------------------------
// PROPERTIES
// -----------------------------------------------------------------------------

const insertPropertySQL = `
INSERT INTO properties
  (id, name, email, phone, description, locations, image_urls, rooms, created_at, updated_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// created_at is never rewritten.
const updatePropertySQL = `
UPDATE properties SET
  name        = ?,
  email       = ?,
  phone       = ?,
  description = ?,
  locations   = ?,
  image_urls  = ?,
  rooms       = ?,
  updated_at  = ?
WHERE id = ?
`

const selectPropertyCols = `
SELECT id, name, email, phone, description, locations, image_urls, rooms, created_at, updated_at
FROM properties
`

const getPropertySQL = selectPropertyCols + `WHERE id = ?`

const listPropertiesSQL = selectPropertyCols + `ORDER BY created_at DESC, id`

// -----------------------------------------------------------------------------
// BOOKINGS
// -----------------------------------------------------------------------------

const insertBookingSQL = `
INSERT INTO bookings
  (id, name, email, from_date, end_date, people, room_type, property_id, created_at, updated_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateBookingSQL = `
UPDATE bookings SET
  name        = ?,
  email       = ?,
  from_date   = ?,
  end_date    = ?,
  people      = ?,
  room_type   = ?,
  property_id = ?,
  updated_at  = ?
WHERE id = ?
`

const selectBookingCols = `
SELECT id, name, email, from_date, end_date, people, room_type, property_id, created_at, updated_at
FROM bookings
`

const getBookingSQL = selectBookingCols + `WHERE id = ?`

const listBookingsSQL = selectBookingCols + `ORDER BY created_at DESC, id`

// Half-open stays [from_date, end_date) intersect when each starts before the other ends.
const listStaysSQL = selectBookingCols + `
WHERE property_id = ? AND room_type = ? AND from_date < ? AND end_date > ?
ORDER BY from_date
`

// Locks the property row so bookings for one property are checked and
// inserted one at a time.
const lockPropertySQL = `SELECT id FROM properties WHERE id = ? FOR UPDATE`

// Locking read so the check sees rows committed by the previous lock holder.
const listStaysLockedSQL = listStaysSQL + `FOR UPDATE`

// -----------------------------------------------------------------------------
// TESTIMONIALS / CONTENT
// -----------------------------------------------------------------------------

const insertTestimonialSQL = `
INSERT INTO testimonials (id, name, email, message, rating, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const listTestimonialsSQL = `
SELECT id, name, email, message, rating, created_at, updated_at
FROM testimonials
ORDER BY created_at DESC, id
`

const insertContentSQL = `
INSERT INTO contents (id, header, subheader, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
`

const updateContentSQL = `
UPDATE contents SET header = ?, subheader = ?, updated_at = ?
WHERE id = ?
`

// Oldest first: the first row is the hero.
const listContentSQL = `
SELECT id, header, subheader, created_at, updated_at
FROM contents
ORDER BY created_at ASC, id
`

// table names come from the fixed set below, never from input
const (
	deleteByIDSQL = "DELETE FROM %s WHERE id = ?"
	existsByIDSQL = "SELECT 1 FROM %s WHERE id = ?"
)
