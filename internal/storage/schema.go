package storage

const schema = `
-- The 'review_events' table journals every grade and learn confirmation sent to the API.
CREATE TABLE IF NOT EXISTS review_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    deck_id INTEGER NOT NULL,
    card_id INTEGER NOT NULL,
    action TEXT NOT NULL,    -- AGAIN, HARD, GOOD, EASY or LEARN
    outcome TEXT NOT NULL,   -- ok or failed
    error TEXT,
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_review_events_deck_time ON review_events(deck_id, created_at);
`
