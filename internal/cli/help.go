package cli

const rootLong = `strsift stores strings together with derived attributes (length, word
count, palindrome flag, unique characters, character frequencies) and
filters them either with structured flags or with plain-English queries
such as "palindromes longer than 5 characters".

Configuration is read from strsift.yaml (in ., ./config or /etc/strsift),
a .env file, STRSIFT_* environment variables and the global flags below,
later sources overriding earlier ones. The store is created on first use.`

const rootExample = `  strsift put racecar "hello world" level
  strsift search "palindromes with at least 2 words"
  strsift search --format values "strings without e" "strings containing z"
  strsift filter --min-length 4 --contains-character a,e
  strsift explain "strings with the letter a in position 2"
  strsift --backend postgres --pg-dsn postgres://localhost/strsift stats`
