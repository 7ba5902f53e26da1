package main

const landingHTML = `<!DOCTYPE html>
<html>
<head><title>Interview Voice</title></head>
<body>
  <h1>Interview Voice</h1>
  <p>Record your answer, get it back polished.</p>
  <a href="/listen">Start recording</a>
</body>
</html>`

const listenHTML = `<!DOCTYPE html>
<html>
<head><title>Interview Voice — Listen</title></head>
<body>
  <h1>Record your answer</h1>
  <select id="language">
    <option value="auto" selected>Detect language</option>
    <option value="en">English</option>
    <option value="my">Burmese</option>
    <option value="ja">Japanese</option>
    <option value="ko">Korean</option>
    <option value="zh">Chinese</option>
    <option value="es">Spanish</option>
    <option value="hi">Hindi</option>
  </select>
  <select id="output_language">
    <option value="same" selected>Same as spoken</option>
    <option value="en">English</option>
    <option value="ja">Japanese</option>
    <option value="es">Spanish</option>
  </select>
  <button id="record">Record</button>
  <pre id="result"></pre>
  <script>
    let recorder, chunks = [];
    const btn = document.getElementById("record");
    btn.onclick = async () => {
      if (recorder && recorder.state === "recording") {
        recorder.stop();
        btn.textContent = "Record";
        return;
      }
      const stream = await navigator.mediaDevices.getUserMedia({audio: true});
      recorder = new MediaRecorder(stream);
      chunks = [];
      recorder.ondataavailable = e => chunks.push(e.data);
      recorder.onstop = async () => {
        const form = new FormData();
        form.append("audio", new Blob(chunks, {type: "audio/webm"}), "clip.webm");
        form.append("language", document.getElementById("language").value);
        form.append("output_language", document.getElementById("output_language").value);
        const resp = await fetch("/interview_listen", {method: "POST", body: form});
        document.getElementById("result").textContent = JSON.stringify(await resp.json(), null, 2);
      };
      recorder.start();
      btn.textContent = "Stop";
    };
  </script>
</body>
</html>`

const premiumHTML = `<!DOCTYPE html>
<html>
<head><title>Interview Voice — Premium</title></head>
<body>
  <h1>Premium</h1>
  <p>Unlimited recordings for this browser session.</p>
  <button onclick="fetch('/activate_premium', {method: 'POST'}).then(() => location.reload())">Activate</button>
</body>
</html>`

const adminHTML = `<!DOCTYPE html>
<html>
<head><title>Interview Voice — Admin</title></head>
<body>
  <h1>Session admin</h1>
  <pre id="status"></pre>
  <button onclick="post('/admin_reset_uses')">Reset uses</button>
  <button onclick="post('/admin_enable_premium')">Enable premium</button>
  <button onclick="post('/admin_disable_premium')">Disable premium</button>
  <button onclick="post('/admin_switch_to_user')">Switch to user</button>
  <button onclick="post('/admin_switch_to_founder')">Switch to founder</button>
  <button onclick="post('/admin_clear_session')">Clear session</button>
  <script>
    function refresh() {
      fetch('/admin_status').then(r => r.json()).then(s => {
        document.getElementById('status').textContent = JSON.stringify(s, null, 2);
      });
    }
    function post(path) { fetch(path, {method: 'POST'}).then(refresh); }
    refresh();
  </script>
</body>
</html>`
