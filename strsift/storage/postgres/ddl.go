package postgres

const ddlBase = `
CREATE TABLE IF NOT EXISTS meta (
  key   TEXT PRIMARY KEY,
  value TEXT
);

CREATE TABLE IF NOT EXISTS strings (
  id                TEXT PRIMARY KEY,
  value             TEXT NOT NULL UNIQUE,
  length            INTEGER NOT NULL,
  is_palindrome     BOOLEAN NOT NULL,
  unique_characters INTEGER NOT NULL,
  word_count        INTEGER NOT NULL,
  char_freq         JSONB NOT NULL,
  created_at        BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_strings_length     ON strings(length);
CREATE INDEX IF NOT EXISTS idx_strings_word_count ON strings(word_count);
CREATE INDEX IF NOT EXISTS idx_strings_palindrome ON strings(is_palindrome);
CREATE INDEX IF NOT EXISTS idx_strings_created    ON strings(created_at);
CREATE INDEX IF NOT EXISTS idx_strings_char_freq  ON strings USING GIN (char_freq);
`
